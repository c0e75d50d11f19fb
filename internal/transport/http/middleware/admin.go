package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// AdminKey guards the admin surface with a static shared secret, accepted
// either as X-Admin-Key or as a bearer token. The comparison is constant
// time and runs before any other admin logic.
func AdminKey(key []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		supplied := c.GetHeader("X-Admin-Key")
		if supplied == "" {
			supplied = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}

		if supplied == "" || subtle.ConstantTimeCompare([]byte(supplied), key) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		c.Next()
	}
}
