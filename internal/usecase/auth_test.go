package usecase_test

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/practicelearn/course-portal/internal/domain"
	"github.com/practicelearn/course-portal/internal/usecase"
)

// ---- fakes ----

type fakeAccountRepo struct {
	upsert            func(ctx context.Context, email, name string, tier domain.Tier) (*domain.Account, error)
	findByID          func(ctx context.Context, id string) (*domain.Account, error)
	findByEmail       func(ctx context.Context, email string) (*domain.Account, error)
	list              func(ctx context.Context) ([]*domain.Account, error)
	setTier           func(ctx context.Context, id string, tier domain.Tier) error
	setPaymentLink    func(ctx context.Context, id string, customerID, orderID *string) error
	recordLogin       func(ctx context.Context, id string, at time.Time) error
	createMagicToken  func(ctx context.Context, accountID, tokenHash string, rememberMe bool, expiresAt time.Time) error
	claimMagicToken   func(ctx context.Context, tokenHash string) (*domain.MagicToken, error)
	deleteExpired    func(ctx context.Context, before time.Time) (int64, error)
}

func (r *fakeAccountRepo) Upsert(ctx context.Context, email, name string, tier domain.Tier) (*domain.Account, error) {
	return r.upsert(ctx, email, name, tier)
}

func (r *fakeAccountRepo) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	return r.findByID(ctx, id)
}

func (r *fakeAccountRepo) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findByEmail(ctx, email)
}

func (r *fakeAccountRepo) List(ctx context.Context) ([]*domain.Account, error) {
	return r.list(ctx)
}

func (r *fakeAccountRepo) SetTier(ctx context.Context, id string, tier domain.Tier) error {
	return r.setTier(ctx, id, tier)
}

func (r *fakeAccountRepo) SetPaymentLink(ctx context.Context, id string, customerID, orderID *string) error {
	return r.setPaymentLink(ctx, id, customerID, orderID)
}

func (r *fakeAccountRepo) RecordLogin(ctx context.Context, id string, at time.Time) error {
	if r.recordLogin == nil {
		return nil
	}
	return r.recordLogin(ctx, id, at)
}

func (r *fakeAccountRepo) CreateMagicToken(ctx context.Context, accountID, tokenHash string, rememberMe bool, expiresAt time.Time) error {
	return r.createMagicToken(ctx, accountID, tokenHash, rememberMe, expiresAt)
}

func (r *fakeAccountRepo) ClaimMagicToken(ctx context.Context, tokenHash string) (*domain.MagicToken, error) {
	return r.claimMagicToken(ctx, tokenHash)
}

func (r *fakeAccountRepo) DeleteExpiredMagicTokens(ctx context.Context, before time.Time) (int64, error) {
	return r.deleteExpired(ctx, before)
}

type fakeEmailSender struct {
	send func(ctx context.Context, to, subject, body string) error
}

func (s *fakeEmailSender) Send(ctx context.Context, to, subject, body string) error {
	return s.send(ctx, to, subject, body)
}

// ---- helpers ----

const testMagicLinkBase = "http://localhost:8080"

func newAuthUsecase(repo *fakeAccountRepo, sender *fakeEmailSender) *usecase.AuthUsecase {
	return usecase.NewAuthUsecase(repo, sender, testMagicLinkBase)
}

var testAccount = &domain.Account{
	ID:    "acct-1",
	Email: "test@example.com",
	Name:  "Test Account",
	Tier:  domain.TierOnlineOnly,
}

// ---- RequestMagicLink ----

func TestRequestMagicLink_StoresHashOfEmailedToken(t *testing.T) {
	var capturedHash string
	var capturedBody string

	repo := &fakeAccountRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.Account, error) {
			return testAccount, nil
		},
		createMagicToken: func(_ context.Context, _, tokenHash string, _ bool, _ time.Time) error {
			capturedHash = tokenHash
			return nil
		},
	}
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, body string) error {
			capturedBody = body
			return nil
		},
	}

	if err := newAuthUsecase(repo, sender).RequestMagicLink(context.Background(), testAccount.Email, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Extract the raw token from the link embedded in the email body.
	idx := strings.Index(capturedBody, "?token=")
	if idx == -1 {
		t.Fatal("email body does not contain ?token=")
	}
	rawToken := strings.SplitN(capturedBody[idx+len("?token="):], `"`, 2)[0]

	wantHash := fmt.Sprintf("%x", sha256.Sum256([]byte(rawToken)))
	if capturedHash != wantHash {
		t.Errorf("stored hash %q != SHA-256 of emailed token %q", capturedHash, wantHash)
	}
}

func TestRequestMagicLink_UnknownEmailCreatesPreviewAccount(t *testing.T) {
	var createdTier domain.Tier

	repo := &fakeAccountRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.Account, error) {
			return nil, domain.ErrAccountNotFound
		},
		upsert: func(_ context.Context, email, _ string, tier domain.Tier) (*domain.Account, error) {
			createdTier = tier
			return &domain.Account{ID: "acct-new", Email: email, Tier: tier}, nil
		},
		createMagicToken: func(_ context.Context, _, _ string, _ bool, _ time.Time) error {
			return nil
		},
	}
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, _ string) error { return nil },
	}

	if err := newAuthUsecase(repo, sender).RequestMagicLink(context.Background(), "new@example.com", false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if createdTier != domain.TierPreview {
		t.Errorf("self-serve signup tier = %s, want preview", createdTier)
	}
}

func TestRequestMagicLink_PersistsRememberChoice(t *testing.T) {
	var capturedRemember bool

	repo := &fakeAccountRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.Account, error) {
			return testAccount, nil
		},
		createMagicToken: func(_ context.Context, _, _ string, rememberMe bool, _ time.Time) error {
			capturedRemember = rememberMe
			return nil
		},
	}
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, _ string) error { return nil },
	}

	if err := newAuthUsecase(repo, sender).RequestMagicLink(context.Background(), testAccount.Email, true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !capturedRemember {
		t.Error("remember-me choice not stored with the token")
	}
}

func TestRequestMagicLink_TokenExpiresInFuture(t *testing.T) {
	var capturedExpiry time.Time

	repo := &fakeAccountRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.Account, error) {
			return testAccount, nil
		},
		createMagicToken: func(_ context.Context, _, _ string, _ bool, expiresAt time.Time) error {
			capturedExpiry = expiresAt
			return nil
		},
	}
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, _ string) error { return nil },
	}

	before := time.Now()
	if err := newAuthUsecase(repo, sender).RequestMagicLink(context.Background(), testAccount.Email, false); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !capturedExpiry.After(before) {
		t.Errorf("expiry %v is not after request time %v", capturedExpiry, before)
	}
}

func TestRequestMagicLink_RepoError_Propagates(t *testing.T) {
	repoErr := errors.New("db down")
	repo := &fakeAccountRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.Account, error) {
			return nil, repoErr
		},
	}
	sender := &fakeEmailSender{}

	err := newAuthUsecase(repo, sender).RequestMagicLink(context.Background(), testAccount.Email, false)
	if !errors.Is(err, repoErr) {
		t.Errorf("want wrapped repoErr, got %v", err)
	}
}

func TestRequestMagicLink_EmailError_Propagates(t *testing.T) {
	sendErr := errors.New("smtp unavailable")
	repo := &fakeAccountRepo{
		findByEmail: func(_ context.Context, _ string) (*domain.Account, error) {
			return testAccount, nil
		},
		createMagicToken: func(_ context.Context, _, _ string, _ bool, _ time.Time) error {
			return nil
		},
	}
	sender := &fakeEmailSender{
		send: func(_ context.Context, _, _, _ string) error { return sendErr },
	}

	err := newAuthUsecase(repo, sender).RequestMagicLink(context.Background(), testAccount.Email, false)
	if !errors.Is(err, sendErr) {
		t.Errorf("want wrapped sendErr, got %v", err)
	}
}

// ---- VerifyMagicLink ----

func TestVerifyMagicLink_ReturnsAccountAndRememberChoice(t *testing.T) {
	const rawToken = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	expectedHash := fmt.Sprintf("%x", sha256.Sum256([]byte(rawToken)))

	var loginRecorded bool
	mt := &domain.MagicToken{ID: "mt-1", AccountID: testAccount.ID, TokenHash: expectedHash, RememberMe: true}
	repo := &fakeAccountRepo{
		claimMagicToken: func(_ context.Context, tokenHash string) (*domain.MagicToken, error) {
			if tokenHash != expectedHash {
				return nil, domain.ErrTokenInvalid
			}
			return mt, nil
		},
		findByID: func(_ context.Context, _ string) (*domain.Account, error) {
			return testAccount, nil
		},
		recordLogin: func(_ context.Context, id string, _ time.Time) error {
			loginRecorded = id == testAccount.ID
			return nil
		},
	}
	sender := &fakeEmailSender{}

	acct, rememberMe, err := newAuthUsecase(repo, sender).VerifyMagicLink(context.Background(), rawToken)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if acct.ID != testAccount.ID {
		t.Errorf("account = %q, want %q", acct.ID, testAccount.ID)
	}
	if !rememberMe {
		t.Error("remember-me choice lost on verify")
	}
	if !loginRecorded {
		t.Error("last login not recorded")
	}
}

func TestVerifyMagicLink_InvalidToken_ReturnsErrTokenInvalid(t *testing.T) {
	repo := &fakeAccountRepo{
		claimMagicToken: func(_ context.Context, _ string) (*domain.MagicToken, error) {
			return nil, domain.ErrTokenInvalid
		},
	}
	sender := &fakeEmailSender{}

	_, _, err := newAuthUsecase(repo, sender).VerifyMagicLink(context.Background(), "bad-token")
	if !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("want ErrTokenInvalid, got %v", err)
	}
}

func TestVerifyMagicLink_SecondClaimFails(t *testing.T) {
	const rawToken = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"

	claimed := false
	repo := &fakeAccountRepo{
		claimMagicToken: func(_ context.Context, _ string) (*domain.MagicToken, error) {
			if claimed {
				return nil, domain.ErrTokenInvalid
			}
			claimed = true
			return &domain.MagicToken{ID: "mt-1", AccountID: testAccount.ID}, nil
		},
		findByID: func(_ context.Context, _ string) (*domain.Account, error) {
			return testAccount, nil
		},
	}
	sender := &fakeEmailSender{}
	uc := newAuthUsecase(repo, sender)

	if _, _, err := uc.VerifyMagicLink(context.Background(), rawToken); err != nil {
		t.Fatalf("first claim: %v", err)
	}
	if _, _, err := uc.VerifyMagicLink(context.Background(), rawToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Errorf("second claim: want ErrTokenInvalid, got %v", err)
	}
}
