package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/practicelearn/course-portal/internal/metrics"
	"github.com/practicelearn/course-portal/internal/session"
	"github.com/practicelearn/course-portal/internal/token"
)

// SessionCookie is the credential carrier for all content endpoints.
const SessionCookie = "session"

const identityKey = "identity"

const errAuthRequired = "Authentication required"

// Auth validates the session cookie and stores the verified identity in
// the gin context. Every failure — missing cookie, bad signature, expired,
// revoked — produces the same generic 401 so the response cannot be used
// as an oracle for why a credential failed.
func Auth(sessions session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred, err := c.Cookie(SessionCookie)
		if err != nil || cred == "" {
			metrics.SessionValidationsTotal.WithLabelValues("missing").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errAuthRequired})
			return
		}

		id, err := sessions.Validate(c.Request.Context(), cred)
		if err != nil {
			metrics.SessionValidationsTotal.WithLabelValues("invalid").Inc()
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errAuthRequired})
			return
		}

		metrics.SessionValidationsTotal.WithLabelValues("ok").Inc()
		c.Set(identityKey, id)
		c.Next()
	}
}

// Identity returns the verified identity stored by Auth.
func Identity(c *gin.Context) (*token.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil, false
	}
	id, ok := v.(*token.Identity)
	return id, ok
}
