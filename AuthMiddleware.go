package main

import (
	"net/http"
	"os"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			jsonFail(c, http.StatusUnauthorized, KindUnauthorized, "Missing Authorization header")
			c.Abort()
			return
		}

		// Expect: "Bearer token"
		if !strings.HasPrefix(authHeader, "Bearer ") {
			jsonFail(c, http.StatusUnauthorized, KindUnauthorized, "Invalid token format")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			secret = "defaultsecret"
		}

		// Parse token
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(secret), nil
		})

		if err != nil {
			jsonFail(c, http.StatusUnauthorized, KindUnauthorized, "Invalid token")
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			jsonFail(c, http.StatusUnauthorized, KindUnauthorized, "Invalid token claims")
			c.Abort()
			return
		}

		uid, ok := claims["user_id"].(float64)
		if !ok {
			jsonFail(c, http.StatusUnauthorized, KindUnauthorized, "Invalid token claims")
			c.Abort()
			return
		}
		role, _ := claims["role"].(string)

		c.Set("user_id", uint(uid))
		c.Set("role", role)

		c.Next()
	}
}

// RequireRoles gates a route group to the given roles. Runs after
// AuthMiddleware, so the role claim is already in context.
func RequireRoles(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := getRoleFromContext(c)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		jsonFail(c, http.StatusForbidden, KindForbidden, "insufficient role")
		c.Abort()
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
