package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/grenades-backend-go/internal/auth"
	"github.com/jengzang/grenades-backend-go/pkg/response"
)

// BearerToken extracts the token of an "Authorization: Bearer" header
func BearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// RequireToken rejects requests without a valid token carrying keyword
func RequireToken(issuer *auth.Issuer, keyword string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			response.Unauthorized(c, "Not authenticated")
			return
		}
		if err := issuer.Verify(token, keyword); err != nil {
			response.Unauthorized(c, "Could not validate credentials")
			return
		}
		c.Next()
	}
}
