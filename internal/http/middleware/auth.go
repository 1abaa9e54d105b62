package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"rodent-dashboard/internal/auth"
)

const (
	claimsKey    = "tokenClaims"
	authHeader   = "Authorization"
	bearerPrefix = "Bearer"
)

// Auth gates requests behind a bearer JWT. A nil parser disables the gate;
// the dashboard runs open unless a secret is configured.
func Auth(parser *auth.Parser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if parser == nil {
			c.Next()
			return
		}

		raw := c.GetHeader(authHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header missing"})
			return
		}

		parts := strings.SplitN(raw, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], bearerPrefix) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims, err := parser.Parse(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}
