package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxBearerTokenKey is the Gin context key holding the raw bearer token.
const CtxBearerTokenKey = "bearerToken"

// BearerToken extracts the Authorization bearer credential into the context.
// It does NOT verify the token; the workflow core authorizes first and must
// see missing tokens itself to reject them with the right reason, so an
// absent header simply leaves the key unset.
func BearerToken() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if len(auth) > 7 && strings.EqualFold(auth[:7], "Bearer ") {
			c.Set(CtxBearerTokenKey, strings.TrimSpace(auth[7:]))
		}
		c.Next()
	}
}
