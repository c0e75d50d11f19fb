package repository

import (
	"context"

	"github.com/practicelearn/course-portal/internal/domain"
)

type ContentRepository interface {
	// ListModules returns catalog metadata only; Sections is always empty.
	ListModules(ctx context.Context) ([]*domain.Module, error)
	// FindModule returns the module with its full section list.
	FindModule(ctx context.Context, id string) (*domain.Module, error)
	ListQuestions(ctx context.Context, moduleID string) ([]domain.Question, error)
}
