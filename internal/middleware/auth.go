package middleware

import (
	"net/http"
	"strings"

	"github.com/comfortdesignszw-mny/ecommerce-web/internal/auth"
	"github.com/gin-gonic/gin"
)

// AuthMiddleware rejects any request without a valid Bearer token and stores
// the authenticated user's ID on the context for downstream handlers. The 401
// message is uniform so callers learn nothing about why a token was refused.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		userID, err := auth.ValidateToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Set("userID", userID)
		c.Next()
	}
}
