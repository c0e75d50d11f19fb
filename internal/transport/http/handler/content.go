package handler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/practicelearn/course-portal/internal/domain"
	"github.com/practicelearn/course-portal/internal/metrics"
	"github.com/practicelearn/course-portal/internal/policy"
	"github.com/practicelearn/course-portal/internal/transport/http/middleware"
)

type contentUsecaser interface {
	ListModules(ctx context.Context, tier domain.Tier) ([]*domain.Module, error)
	GetModule(ctx context.Context, tier domain.Tier, id string) (*domain.Module, error)
	Download(ctx context.Context, tier domain.Tier, filename string) (io.ReadCloser, string, error)
}

type ContentHandler struct {
	contentUsecase contentUsecaser
	logger         *slog.Logger
}

func NewContentHandler(contentUsecase contentUsecaser, logger *slog.Logger) *ContentHandler {
	return &ContentHandler{
		contentUsecase: contentUsecase,
		logger:         logger.With("component", "content_handler"),
	}
}

// moduleMetadata is the listing shape: no sections, no quiz content.
type moduleMetadata struct {
	ID              string      `json:"id"`
	Title           string      `json:"title"`
	DurationMinutes int         `json:"duration_minutes"`
	Points          int         `json:"points"`
	MinTier         domain.Tier `json:"min_tier"`
}

type sectionResponse struct {
	Position int    `json:"position"`
	Title    string `json:"title"`
	Body     string `json:"body"`
}

type moduleResponse struct {
	moduleMetadata
	Sections []sectionResponse `json:"sections"`
}

// GET /content/modules
func (h *ContentHandler) ListModules(c *gin.Context) {
	id, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errAuthRequired})
		return
	}

	modules, err := h.contentUsecase.ListModules(c.Request.Context(), id.Tier)
	if err != nil {
		h.denyOrFail(c, "list", err)
		return
	}

	metrics.ContentDecisionsTotal.WithLabelValues("list", "allow").Inc()
	out := make([]moduleMetadata, 0, len(modules))
	for _, m := range modules {
		out = append(out, metadataOf(m))
	}
	c.JSON(http.StatusOK, gin.H{"modules": out})
}

// GET /content/modules/:id
func (h *ContentHandler) GetModule(c *gin.Context) {
	id, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errAuthRequired})
		return
	}

	m, err := h.contentUsecase.GetModule(c.Request.Context(), id.Tier, c.Param("id"))
	if err != nil {
		h.denyOrFail(c, "read", err)
		return
	}

	metrics.ContentDecisionsTotal.WithLabelValues("read", "allow").Inc()
	resp := moduleResponse{
		moduleMetadata: metadataOf(m),
		Sections:       make([]sectionResponse, 0, len(m.Sections)),
	}
	for _, s := range m.Sections {
		resp.Sections = append(resp.Sections, sectionResponse{Position: s.Position, Title: s.Title, Body: s.Body})
	}
	c.JSON(http.StatusOK, resp)
}

// GET /content/download?file=<name>
func (h *ContentHandler) Download(c *gin.Context) {
	id, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errAuthRequired})
		return
	}

	filename := c.Query("file")
	if filename == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file parameter is required"})
		return
	}

	body, contentType, err := h.contentUsecase.Download(c.Request.Context(), id.Tier, filename)
	if err != nil {
		metrics.DownloadsTotal.WithLabelValues("denied").Inc()
		h.denyOrFail(c, "download", err)
		return
	}
	defer body.Close()

	metrics.DownloadsTotal.WithLabelValues("ok").Inc()
	c.Header("Content-Type", contentType)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)
	if _, err := io.Copy(c.Writer, body); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "stream download", "file", filename, "error", err)
	}
}

// denyOrFail maps usecase errors onto the response taxonomy. The 403
// carries a machine-readable reason so the client can render the upgrade
// call-to-action without being told anything about internal policy.
func (h *ContentHandler) denyOrFail(c *gin.Context, operation string, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		metrics.ContentDecisionsTotal.WithLabelValues(operation, "deny").Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": errAuthRequired})
	case errors.Is(err, domain.ErrUpgradeRequired):
		metrics.ContentDecisionsTotal.WithLabelValues(operation, "deny").Inc()
		c.JSON(http.StatusForbidden, gin.H{
			"error":  errUpgradeRequired,
			"reason": policy.ReasonUpgradeRequired,
		})
	case errors.Is(err, domain.ErrModuleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errModuleNotFound})
	case errors.Is(err, domain.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errFileNotFound})
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		h.logger.ErrorContext(c.Request.Context(), "content upstream", "operation", operation, "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": errUpstream})
	default:
		h.logger.ErrorContext(c.Request.Context(), "content request", "operation", operation, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}

func metadataOf(m *domain.Module) moduleMetadata {
	return moduleMetadata{
		ID:              m.ID,
		Title:           m.Title,
		DurationMinutes: m.DurationMinutes,
		Points:          m.Points,
		MinTier:         m.MinTier,
	}
}
