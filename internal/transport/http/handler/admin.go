package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/practicelearn/course-portal/internal/domain"
)

type accountUsecaser interface {
	List(ctx context.Context) ([]*domain.Account, error)
	SetTier(ctx context.Context, id string, tier domain.Tier) error
	ResendMagicLink(ctx context.Context, id string) error
}

type AdminHandler struct {
	accountUsecase accountUsecaser
	logger         *slog.Logger
}

func NewAdminHandler(accountUsecase accountUsecaser, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		accountUsecase: accountUsecase,
		logger:         logger.With("component", "admin_handler"),
	}
}

type accountResponse struct {
	ID          string      `json:"id"`
	Email       string      `json:"email"`
	Name        string      `json:"name"`
	Tier        domain.Tier `json:"tier"`
	CreatedAt   time.Time   `json:"created_at"`
	LastLoginAt *time.Time  `json:"last_login_at,omitempty"`
}

// GET /admin/accounts
func (h *AdminHandler) ListAccounts(c *gin.Context) {
	accounts, err := h.accountUsecase.List(c.Request.Context())
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "list accounts", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountResponse{
			ID:          a.ID,
			Email:       a.Email,
			Name:        a.Name,
			Tier:        a.Tier,
			CreatedAt:   a.CreatedAt,
			LastLoginAt: a.LastLoginAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"accounts": out})
}

type setTierRequest struct {
	Tier domain.Tier `json:"tier" binding:"required"`
}

// PUT /admin/accounts/:id/tier
// The only operation allowed to downgrade a tier.
func (h *AdminHandler) SetTier(c *gin.Context) {
	var req setTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := h.accountUsecase.SetTier(c.Request.Context(), c.Param("id"), req.Tier)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnrecognizedTier):
			c.JSON(http.StatusBadRequest, gin.H{"error": "unrecognized tier"})
		case errors.Is(err, domain.ErrAccountNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
		default:
			h.logger.ErrorContext(c.Request.Context(), "set tier", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// POST /admin/accounts/:id/magic-link
func (h *AdminHandler) ResendMagicLink(c *gin.Context) {
	err := h.accountUsecase.ResendMagicLink(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "account not found"})
			return
		}
		h.logger.ErrorContext(c.Request.Context(), "resend magic link", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.Status(http.StatusAccepted)
}
