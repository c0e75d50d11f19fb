package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/practicelearn/course-portal/internal/domain"
	"github.com/practicelearn/course-portal/internal/email"
	"github.com/practicelearn/course-portal/internal/repository"
)

const defaultMagicTokenTTL = 15 * time.Minute

type AuthUsecase struct {
	accounts      repository.AccountRepository
	email         email.Sender
	tokenTTL      time.Duration
	magicLinkBase string
}

func NewAuthUsecase(accounts repository.AccountRepository, emailSender email.Sender, magicLinkBase string) *AuthUsecase {
	return &AuthUsecase{
		accounts:      accounts,
		email:         emailSender,
		tokenTTL:      defaultMagicTokenTTL,
		magicLinkBase: magicLinkBase,
	}
}

// RequestMagicLink finds or creates the account and emails a sign-in link.
// Unknown emails get a preview-tier account (self-serve free signup); the
// caller must respond identically either way so the endpoint cannot be
// used to probe which emails are registered.
func (u *AuthUsecase) RequestMagicLink(ctx context.Context, emailAddr string, rememberMe bool) error {
	acct, err := u.accounts.FindByEmail(ctx, emailAddr)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			return fmt.Errorf("find account: %w", err)
		}
		acct, err = u.accounts.Upsert(ctx, emailAddr, "", domain.TierPreview)
		if err != nil {
			return fmt.Errorf("create account: %w", err)
		}
	}

	return u.SendMagicLink(ctx, acct, rememberMe)
}

// SendMagicLink generates a single-use token, stores its hash, and emails
// the verify link. Only the hash is persisted; the raw token exists in the
// email body and nowhere else.
func (u *AuthUsecase) SendMagicLink(ctx context.Context, acct *domain.Account, rememberMe bool) error {
	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return fmt.Errorf("generate token: %w", err)
	}
	rawToken := hex.EncodeToString(raw)
	tokenHash := fmt.Sprintf("%x", sha256.Sum256([]byte(rawToken)))

	expiresAt := time.Now().Add(u.tokenTTL)
	if err := u.accounts.CreateMagicToken(ctx, acct.ID, tokenHash, rememberMe, expiresAt); err != nil {
		return fmt.Errorf("store magic token: %w", err)
	}

	link := u.magicLinkBase + "/auth/verify?token=" + rawToken
	subject := "Your course sign-in link"
	body := fmt.Sprintf(
		`<p>Click the link below to open your course (expires in 15 minutes):</p><p><a href="%s">%s</a></p>`,
		link, link,
	)
	if err := u.email.Send(ctx, acct.Email, subject, body); err != nil {
		return fmt.Errorf("send magic link: %w", err)
	}
	return nil
}

// VerifyMagicLink hashes the raw token, atomically claims it, and returns
// the account it belongs to plus the remember-me choice recorded at request
// time. The claim is single use: a second click on the same link fails.
func (u *AuthUsecase) VerifyMagicLink(ctx context.Context, rawToken string) (*domain.Account, bool, error) {
	tokenHash := fmt.Sprintf("%x", sha256.Sum256([]byte(rawToken)))

	mt, err := u.accounts.ClaimMagicToken(ctx, tokenHash)
	if err != nil {
		return nil, false, domain.ErrTokenInvalid
	}

	acct, err := u.accounts.FindByID(ctx, mt.AccountID)
	if err != nil {
		return nil, false, fmt.Errorf("find account: %w", err)
	}

	if err := u.accounts.RecordLogin(ctx, acct.ID, time.Now()); err != nil {
		return nil, false, fmt.Errorf("record login: %w", err)
	}

	return acct, mt.RememberMe, nil
}
