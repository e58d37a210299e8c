package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/psych0panda/checktrack/internal/presentation/http/dto/response"
	"github.com/psych0panda/checktrack/pkg/utils"
)

// AuthMiddleware creates a JWT authentication middleware
func AuthMiddleware(jwtManager *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		// Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateAccessToken(parts[1])
		if err != nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		// Set user info in context
		c.Set("user_id", claims.UserID)
		c.Set("user_email", claims.Email)
		c.Set("is_superuser", claims.IsSuperuser)

		c.Next()
	}
}

// RequireSuperuser creates a middleware that only lets superusers through
func RequireSuperuser() gin.HandlerFunc {
	return func(c *gin.Context) {
		isSuperuser, exists := c.Get("is_superuser")
		if !exists {
			response.Forbidden(c, "Not enough permissions")
			c.Abort()
			return
		}
		if ok, _ := isSuperuser.(bool); !ok {
			response.Forbidden(c, "Not enough permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
