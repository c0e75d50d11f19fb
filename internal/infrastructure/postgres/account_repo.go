package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/practicelearn/course-portal/internal/domain"
)

type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, email, name, tier, customer_id, order_id, created_at, last_login_at`

// Upsert inserts the account or raises the tier of an existing one.
// GREATEST on the stored tier rank makes repeat signups idempotent and
// downgrade-proof in a single statement — no read-modify-write window.
func (r *AccountRepository) Upsert(ctx context.Context, email, name string, tier domain.Tier) (*domain.Account, error) {
	if !tier.Valid() {
		return nil, domain.ErrUnrecognizedTier
	}

	query := `
		INSERT INTO accounts (id, email, name, tier)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (email) DO UPDATE SET
			tier = GREATEST(accounts.tier, EXCLUDED.tier),
			name = CASE WHEN EXCLUDED.name <> '' THEN EXCLUDED.name ELSE accounts.name END
		RETURNING ` + accountColumns

	row := r.pool.QueryRow(ctx, query,
		uuid.NewString(),
		strings.ToLower(strings.TrimSpace(email)),
		name,
		tier.Rank(),
	)
	return scanAccount(row)
}

func (r *AccountRepository) FindByID(ctx context.Context, id string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	return scanAccount(row)
}

func (r *AccountRepository) List(ctx context.Context) ([]*domain.Account, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *AccountRepository) SetTier(ctx context.Context, id string, tier domain.Tier) error {
	if !tier.Valid() {
		return domain.ErrUnrecognizedTier
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE accounts SET tier = $2 WHERE id = $1`, id, tier.Rank())
	if err != nil {
		return fmt.Errorf("set tier: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *AccountRepository) SetPaymentLink(ctx context.Context, id string, customerID, orderID *string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE accounts SET
			customer_id = COALESCE($2, customer_id),
			order_id    = COALESCE($3, order_id)
		WHERE id = $1`,
		id, customerID, orderID)
	if err != nil {
		return fmt.Errorf("set payment link: %w", err)
	}
	return nil
}

func (r *AccountRepository) RecordLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE accounts SET last_login_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("record login: %w", err)
	}
	return nil
}

func (r *AccountRepository) CreateMagicToken(ctx context.Context, accountID, tokenHash string, rememberMe bool, expiresAt time.Time) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO magic_tokens (id, account_id, token_hash, remember_me, expires_at)
		VALUES ($1, $2, $3, $4, $5)`,
		uuid.NewString(), accountID, tokenHash, rememberMe, expiresAt)
	if err != nil {
		return fmt.Errorf("create magic token: %w", err)
	}
	return nil
}

// ClaimMagicToken marks the token used in the same statement that checks
// it, so two concurrent clicks on the same link cannot both succeed.
func (r *AccountRepository) ClaimMagicToken(ctx context.Context, tokenHash string) (*domain.MagicToken, error) {
	query := `
		UPDATE magic_tokens SET used_at = now()
		WHERE token_hash = $1 AND used_at IS NULL AND expires_at > now()
		RETURNING id, account_id, token_hash, remember_me, expires_at, used_at, created_at`

	var mt domain.MagicToken
	err := r.pool.QueryRow(ctx, query, tokenHash).Scan(
		&mt.ID, &mt.AccountID, &mt.TokenHash, &mt.RememberMe,
		&mt.ExpiresAt, &mt.UsedAt, &mt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, fmt.Errorf("claim magic token: %w", err)
	}
	return &mt, nil
}

func (r *AccountRepository) DeleteExpiredMagicTokens(ctx context.Context, before time.Time) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM magic_tokens WHERE expires_at < $1`, before)
	if err != nil {
		return 0, fmt.Errorf("delete expired magic tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a        domain.Account
		tierRank int
	)
	err := row.Scan(&a.ID, &a.Email, &a.Name, &tierRank,
		&a.CustomerID, &a.OrderID, &a.CreatedAt, &a.LastLoginAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}

	a.Tier, err = domain.TierFromRank(tierRank)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
