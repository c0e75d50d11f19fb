// Package session issues and validates the credential carried by the
// session cookie. Two strategies implement the same Manager interface;
// exactly one is wired at startup — mixing them across endpoints would
// make revocation behavior inconsistent.
package session

import (
	"context"
	"time"

	"github.com/practicelearn/course-portal/internal/domain"
	"github.com/practicelearn/course-portal/internal/token"
)

const (
	DefaultTTL  = 7 * 24 * time.Hour
	RememberTTL = 30 * 24 * time.Hour
)

// TTL returns the session lifetime for the remember-me choice.
func TTL(rememberMe bool) time.Duration {
	if rememberMe {
		return RememberTTL
	}
	return DefaultTTL
}

type Manager interface {
	Create(ctx context.Context, acct *domain.Account, rememberMe bool) (string, error)
	// Validate returns the identity bound to the credential. All failures
	// collapse to a 401 at the transport layer; callers must not expose
	// which failure occurred.
	Validate(ctx context.Context, credential string) (*token.Identity, error)
	// Revoke invalidates the credential where the strategy supports it.
	Revoke(ctx context.Context, credential string) error
}

// Stateless holds the whole session in a signed token. Validation is a
// pure signature check; logout is client-side only, so a discarded token
// stays technically valid until its expiry — the accepted trade-off of
// this strategy.
type Stateless struct {
	codec *token.Codec
}

func NewStateless(codec *token.Codec) *Stateless {
	return &Stateless{codec: codec}
}

func (s *Stateless) Create(_ context.Context, acct *domain.Account, rememberMe bool) (string, error) {
	return s.codec.Issue(token.Identity{
		AccountID: acct.ID,
		Email:     acct.Email,
		Name:      acct.Name,
		Tier:      acct.Tier,
	}, TTL(rememberMe))
}

func (s *Stateless) Validate(_ context.Context, credential string) (*token.Identity, error) {
	return s.codec.Verify(credential)
}

func (s *Stateless) Revoke(context.Context, string) error {
	return nil
}
