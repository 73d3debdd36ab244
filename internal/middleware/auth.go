package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sovereign/api/internal/config"
	"sovereign/api/internal/security"
)

const identityKey = "request_identity"

// Identity is the verified token payload attached to a request. It is
// passed explicitly into service calls; handlers never re-read the raw
// token. UserID is empty for the configured admin, which has no user row.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// Auth requires a valid bearer token. The token is self-contained; no
// store lookup happens here.
func Auth(cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Missing token"})
			return
		}

		tokenStr := strings.TrimPrefix(authHeader, "Bearer ")

		claims, err := security.ParseToken(tokenStr, cfg.Security.JWTSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"success": false, "error": "Invalid or expired token"})
			return
		}

		c.Set(identityKey, Identity{
			UserID: claims.Subject,
			Email:  claims.Email,
			Role:   claims.Role,
		})

		c.Next()
	}
}

// IdentityFrom returns the identity attached by Auth.
func IdentityFrom(c *gin.Context) (Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return Identity{}, false
	}
	identity, ok := value.(Identity)
	return identity, ok
}
