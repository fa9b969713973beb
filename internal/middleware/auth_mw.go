package middleware

import (
	"net/http"
	"strings"

	"user_accounts/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	// AuthUserKey holds the resolved *model.User in the gin context
	AuthUserKey = "authUser"
	// AuthTokenKey holds the presented bearer token string
	AuthTokenKey = "authToken"
)

// AuthMiddleware creates a middleware that gates protected routes on a valid
// bearer token. The resolved user and token are stored in the request context.
func AuthMiddleware(svc service.AccountService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		tokenString := parts[1]
		user, err := svc.Authorize(c.Request.Context(), tokenString)
		if err != nil {
			// Verification failures and stale tokens degrade to 401, never a crash
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authorized"})
			return
		}

		c.Set(AuthUserKey, user)
		c.Set(AuthTokenKey, tokenString)

		c.Next()
	}
}
