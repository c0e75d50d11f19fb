package handler_test

import (
	"context"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/practicelearn/course-portal/internal/domain"
	"github.com/practicelearn/course-portal/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSessionManager satisfies session.Manager. Zero-value Create returns
// a fixed credential; Validate accepts only that credential.
type fakeSessionManager struct {
	create   func(ctx context.Context, acct *domain.Account, rememberMe bool) (string, error)
	validate func(ctx context.Context, credential string) (*token.Identity, error)
	revoke   func(ctx context.Context, credential string) error
}

func (m *fakeSessionManager) Create(ctx context.Context, acct *domain.Account, rememberMe bool) (string, error) {
	if m.create == nil {
		return "test-credential", nil
	}
	return m.create(ctx, acct, rememberMe)
}

func (m *fakeSessionManager) Validate(ctx context.Context, credential string) (*token.Identity, error) {
	if m.validate == nil {
		if credential != "test-credential" {
			return nil, domain.ErrSessionNotFound
		}
		return &token.Identity{AccountID: "acct-1", Email: "test@example.com", Tier: domain.TierOnlineOnly}, nil
	}
	return m.validate(ctx, credential)
}

func (m *fakeSessionManager) Revoke(ctx context.Context, credential string) error {
	if m.revoke == nil {
		return nil
	}
	return m.revoke(ctx, credential)
}

// sessionFor returns a manager whose only valid credential maps to the
// given tier.
func sessionFor(tier domain.Tier) *fakeSessionManager {
	return &fakeSessionManager{
		validate: func(_ context.Context, credential string) (*token.Identity, error) {
			if credential != "test-credential" {
				return nil, domain.ErrSessionNotFound
			}
			return &token.Identity{AccountID: "acct-1", Email: "test@example.com", Tier: tier}, nil
		},
	}
}
