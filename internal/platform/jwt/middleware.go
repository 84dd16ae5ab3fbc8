package jwtmw

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"planning_backend/internal/shared/audit"
)

// ContextUsername is the gin context key holding the authenticated username.
const ContextUsername = "username"

// TokenValidator validates a raw bearer token.
type TokenValidator interface {
	Validate(token string) (*Claims, error)
}

// Authenticator resolves the caller without a bearer token, e.g. from a session cookie.
type Authenticator interface {
	Authenticate(c *gin.Context) (username string, ok bool)
}

// AuthRequired returns a Gin middleware that accepts a valid bearer token or,
// when fallback is non-nil, whatever fallback accepts. Everything else is 401.
func AuthRequired(validator TokenValidator, fallback Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			claims, err := validator.Validate(strings.TrimPrefix(auth, "Bearer "))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
				return
			}
			setPrincipal(c, claims.Subject)
			c.Next()
			return
		}

		if fallback != nil {
			if username, ok := fallback.Authenticate(c); ok {
				setPrincipal(c, username)
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
	}
}

func setPrincipal(c *gin.Context, username string) {
	c.Set(ContextUsername, username)
	c.Request = c.Request.WithContext(audit.WithActor(c.Request.Context(), username))
}

// Username returns the authenticated username set by AuthRequired.
func Username(c *gin.Context) string {
	return c.GetString(ContextUsername)
}
