package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/practicelearn/course-portal/internal/domain"
	"github.com/practicelearn/course-portal/internal/repository"
	"github.com/practicelearn/course-portal/internal/token"
)

// Registry stores one server-side record per session id, which makes
// logout a real revocation. Expiry is checked lazily at validate time;
// the maintenance sweeper only reclaims storage.
type Registry struct {
	sessions repository.SessionRepository
	accounts repository.AccountRepository
	now      func() time.Time
}

func NewRegistry(sessions repository.SessionRepository, accounts repository.AccountRepository) *Registry {
	return &Registry{
		sessions: sessions,
		accounts: accounts,
		now:      time.Now,
	}
}

func (r *Registry) Create(ctx context.Context, acct *domain.Account, rememberMe bool) (string, error) {
	// 32 random bytes — twice the 128-bit minimum for an unguessable id.
	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	id := hex.EncodeToString(raw)

	now := r.now()
	s := &domain.Session{
		ID:         id,
		AccountID:  acct.ID,
		RememberMe: rememberMe,
		CreatedAt:  now,
		ExpiresAt:  now.Add(TTL(rememberMe)),
	}
	if err := r.sessions.Create(ctx, s); err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}
	return id, nil
}

func (r *Registry) Validate(ctx context.Context, credential string) (*token.Identity, error) {
	s, err := r.sessions.FindByID(ctx, credential)
	if err != nil {
		return nil, domain.ErrSessionNotFound
	}
	if s.ExpiredAt(r.now()) {
		return nil, domain.ErrSessionExpired
	}

	// Tier is read from the account at validate time, so a mid-session
	// upgrade takes effect on the next request.
	acct, err := r.accounts.FindByID(ctx, s.AccountID)
	if err != nil {
		return nil, fmt.Errorf("find session account: %w", err)
	}
	return &token.Identity{
		AccountID: acct.ID,
		Email:     acct.Email,
		Name:      acct.Name,
		Tier:      acct.Tier,
	}, nil
}

func (r *Registry) Revoke(ctx context.Context, credential string) error {
	return r.sessions.Delete(ctx, credential)
}
