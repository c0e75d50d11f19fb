package repository

import (
	"context"
	"time"

	"github.com/practicelearn/course-portal/internal/domain"
)

type AccountRepository interface {
	// Upsert creates the account or, if the email is already registered,
	// keeps the existing record and raises its tier only when the incoming
	// tier is higher. It never downgrades.
	Upsert(ctx context.Context, email, name string, tier domain.Tier) (*domain.Account, error)
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	List(ctx context.Context) ([]*domain.Account, error)
	SetTier(ctx context.Context, id string, tier domain.Tier) error
	SetPaymentLink(ctx context.Context, id string, customerID, orderID *string) error
	RecordLogin(ctx context.Context, id string, at time.Time) error

	CreateMagicToken(ctx context.Context, accountID, tokenHash string, rememberMe bool, expiresAt time.Time) error
	// ClaimMagicToken atomically marks the token used. It fails for tokens
	// that are unknown, expired, or already claimed — single use is enforced
	// here, not in the handler.
	ClaimMagicToken(ctx context.Context, tokenHash string) (*domain.MagicToken, error)
	DeleteExpiredMagicTokens(ctx context.Context, before time.Time) (int64, error)
}
