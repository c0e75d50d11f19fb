package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/practicelearn/course-portal/internal/domain"
	"github.com/practicelearn/course-portal/internal/repository"
)

// magicLinkSender is the slice of AuthUsecase that account provisioning
// needs. Defined here so tests can inject a fake.
type magicLinkSender interface {
	SendMagicLink(ctx context.Context, acct *domain.Account, rememberMe bool) error
}

type AccountUsecase struct {
	accounts repository.AccountRepository
	links    magicLinkSender
	logger   *slog.Logger
}

func NewAccountUsecase(accounts repository.AccountRepository, links magicLinkSender, logger *slog.Logger) *AccountUsecase {
	return &AccountUsecase{
		accounts: accounts,
		links:    links,
		logger:   logger.With("component", "account_usecase"),
	}
}

type ProvisionInput struct {
	Email      string
	Name       string
	Tier       domain.Tier
	CustomerID *string
	OrderID    *string
}

// Provision creates or upgrades an account from a payment/order event and
// emails a sign-in link. The account write is the durable fact of record:
// an email failure is logged and retried out of band, never rolled back.
func (u *AccountUsecase) Provision(ctx context.Context, input ProvisionInput) (*domain.Account, error) {
	if !input.Tier.Valid() {
		return nil, domain.ErrUnrecognizedTier
	}

	acct, err := u.accounts.Upsert(ctx, input.Email, input.Name, input.Tier)
	if err != nil {
		return nil, fmt.Errorf("upsert account: %w", err)
	}

	if input.CustomerID != nil || input.OrderID != nil {
		if err := u.accounts.SetPaymentLink(ctx, acct.ID, input.CustomerID, input.OrderID); err != nil {
			return nil, fmt.Errorf("link payment: %w", err)
		}
	}

	if err := u.links.SendMagicLink(ctx, acct, false); err != nil {
		u.logger.ErrorContext(ctx, "provision magic link send failed", "account_id", acct.ID, "error", err)
	}

	return acct, nil
}

func (u *AccountUsecase) List(ctx context.Context) ([]*domain.Account, error) {
	accounts, err := u.accounts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

// SetTier is the one path allowed to move a tier in either direction.
// Webhook and signup flows only ever upgrade; an explicit admin decision
// is required to downgrade.
func (u *AccountUsecase) SetTier(ctx context.Context, id string, tier domain.Tier) error {
	if !tier.Valid() {
		return domain.ErrUnrecognizedTier
	}
	return u.accounts.SetTier(ctx, id, tier)
}

// ResendMagicLink re-sends a sign-in link to an existing account.
func (u *AccountUsecase) ResendMagicLink(ctx context.Context, id string) error {
	acct, err := u.accounts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return u.links.SendMagicLink(ctx, acct, false)
}
