package middleware

import (
	"net/http"
	"strings"

	"github.com/beaconworks/beacon-go/internal/application/services"
	"github.com/gin-gonic/gin"
)

const authCookieName = "admin_auth"

// AdminOnly rejects requests without a valid admin token. The token is
// read from the Authorization header or, for the dashboard SPA, the
// auth cookie.
func AdminOnly(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			if cookie, err := c.Cookie(authCookieName); err == nil {
				token = cookie
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set("adminId", claims.AdminID)
		c.Set("adminEmail", claims.Email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}
