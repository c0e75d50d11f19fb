package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/practicelearn/course-portal/internal/domain"
	"github.com/practicelearn/course-portal/internal/policy"
	"github.com/practicelearn/course-portal/internal/quiz"
	"github.com/practicelearn/course-portal/internal/transport/http/middleware"
)

type quizUsecaser interface {
	Start(ctx context.Context, tier domain.Tier, moduleID string) ([]quiz.SafeQuestion, error)
	Submit(ctx context.Context, tier domain.Tier, moduleID string, questionIDs []string, answers []int) (*quiz.Result, error)
}

type QuizHandler struct {
	quizUsecase quizUsecaser
	logger      *slog.Logger
}

func NewQuizHandler(quizUsecase quizUsecaser, logger *slog.Logger) *QuizHandler {
	return &QuizHandler{
		quizUsecase: quizUsecase,
		logger:      logger.With("component", "quiz_handler"),
	}
}

// GET /quiz/:moduleID/start
// Questions leave the server with answer keys and rationale already
// removed; there is nothing for a client to un-hide.
func (h *QuizHandler) Start(c *gin.Context) {
	id, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errAuthRequired})
		return
	}

	questions, err := h.quizUsecase.Start(c.Request.Context(), id.Tier, c.Param("moduleID"))
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"questions": questions})
}

type submitQuizRequest struct {
	QuestionIDs []string `json:"question_ids" binding:"required"`
	Answers     []int    `json:"answers" binding:"required"`
}

// POST /quiz/:moduleID/submit
func (h *QuizHandler) Submit(c *gin.Context) {
	id, ok := middleware.Identity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": errAuthRequired})
		return
	}

	var req submitQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.quizUsecase.Submit(c.Request.Context(), id.Tier, c.Param("moduleID"), req.QuestionIDs, req.Answers)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *QuizHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, quiz.ErrAnswerCountMismatch), errors.Is(err, quiz.ErrUnknownQuestion):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": errAuthRequired})
	case errors.Is(err, domain.ErrUpgradeRequired):
		c.JSON(http.StatusForbidden, gin.H{
			"error":  errUpgradeRequired,
			"reason": policy.ReasonUpgradeRequired,
		})
	case errors.Is(err, domain.ErrModuleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": errModuleNotFound})
	default:
		h.logger.ErrorContext(c.Request.Context(), "quiz request", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
	}
}
