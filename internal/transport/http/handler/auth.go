package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/practicelearn/course-portal/internal/domain"
	"github.com/practicelearn/course-portal/internal/metrics"
	"github.com/practicelearn/course-portal/internal/session"
	"github.com/practicelearn/course-portal/internal/transport/http/middleware"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	RequestMagicLink(ctx context.Context, email string, rememberMe bool) error
	VerifyMagicLink(ctx context.Context, rawToken string) (*domain.Account, bool, error)
}

type AuthHandler struct {
	authUsecase   authUsecaser
	sessions      session.Manager
	secureCookies bool
	logger        *slog.Logger
}

func NewAuthHandler(authUsecase authUsecaser, sessions session.Manager, secureCookies bool, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authUsecase:   authUsecase,
		sessions:      sessions,
		secureCookies: secureCookies,
		logger:        logger.With("component", "auth_handler"),
	}
}

type magicLinkRequest struct {
	Email      string `json:"email" binding:"required,email"`
	RememberMe bool   `json:"remember_me"`
}

// POST /auth/magic-link
// Always returns 202 on a well-formed request so the response does not
// reveal whether the email belongs to an account.
func (h *AuthHandler) RequestMagicLink(c *gin.Context) {
	var req magicLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.authUsecase.RequestMagicLink(c.Request.Context(), req.Email, req.RememberMe); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "request magic link", "error", err)
	} else {
		metrics.MagicLinksRequestedTotal.Inc()
	}

	c.Status(http.StatusAccepted)
}

// GET /auth/verify?token=<raw>
// The legacy ?email=&token= form is accepted too; the email parameter is
// ignored because the token alone is authoritative. On success the session
// cookie is set; all failures collapse to a generic 401 with no cookie.
func (h *AuthHandler) Verify(c *gin.Context) {
	rawToken := c.Query("token")
	if rawToken == "" {
		metrics.MagicLinkVerificationsTotal.WithLabelValues("missing").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": errAuthRequired})
		return
	}

	acct, rememberMe, err := h.authUsecase.VerifyMagicLink(c.Request.Context(), rawToken)
	if err != nil {
		if !errors.Is(err, domain.ErrTokenInvalid) {
			h.logger.ErrorContext(c.Request.Context(), "verify magic link", "error", err)
		}
		metrics.MagicLinkVerificationsTotal.WithLabelValues("rejected").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": errAuthRequired})
		return
	}

	cred, err := h.sessions.Create(c.Request.Context(), acct, rememberMe)
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "create session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	metrics.MagicLinkVerificationsTotal.WithLabelValues("ok").Inc()
	h.setSessionCookie(c, cred, int(session.TTL(rememberMe).Seconds()))
	c.JSON(http.StatusOK, gin.H{"status": "signed_in"})
}

// POST /auth/logout
// Revokes the session where the strategy supports it and clears the cookie
// either way.
func (h *AuthHandler) Logout(c *gin.Context) {
	if cred, err := c.Cookie(middleware.SessionCookie); err == nil && cred != "" {
		if err := h.sessions.Revoke(c.Request.Context(), cred); err != nil {
			h.logger.ErrorContext(c.Request.Context(), "revoke session", "error", err)
		}
	}

	h.setSessionCookie(c, "", -1)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", h.secureCookies, true)
}
