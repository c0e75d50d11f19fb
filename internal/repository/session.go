package repository

import (
	"context"
	"time"

	"github.com/practicelearn/course-portal/internal/domain"
)

// SessionRepository backs the registry session strategy. One record per
// session id; there is no shared collection to read-modify-write.
type SessionRepository interface {
	Create(ctx context.Context, s *domain.Session) error
	FindByID(ctx context.Context, id string) (*domain.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
