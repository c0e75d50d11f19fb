package domain

import (
	"errors"
	"time"
)

var (
	ErrAccountNotFound  = errors.New("account not found")
	ErrTokenInvalid     = errors.New("token is invalid or expired")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrUnrecognizedTier = errors.New("unrecognized access tier")
)

// Tier is the closed set of access levels. The zero value is not valid;
// anything outside the three constants must be treated as a deny.
type Tier string

const (
	TierPreview    Tier = "preview"
	TierOnlineOnly Tier = "online-only"
	TierFullCourse Tier = "full-course"
)

func (t Tier) Valid() bool {
	switch t {
	case TierPreview, TierOnlineOnly, TierFullCourse:
		return true
	}
	return false
}

// Rank orders tiers for comparison and storage. Returns -1 for an
// unrecognized tier so that it never satisfies any requirement.
func (t Tier) Rank() int {
	switch t {
	case TierPreview:
		return 0
	case TierOnlineOnly:
		return 1
	case TierFullCourse:
		return 2
	}
	return -1
}

// AtLeast reports whether t satisfies the min requirement. Either side
// being unrecognized yields false.
func (t Tier) AtLeast(min Tier) bool {
	if !t.Valid() || !min.Valid() {
		return false
	}
	return t.Rank() >= min.Rank()
}

// TierFromRank is the inverse of Rank, used when scanning from storage.
func TierFromRank(rank int) (Tier, error) {
	switch rank {
	case 0:
		return TierPreview, nil
	case 1:
		return TierOnlineOnly, nil
	case 2:
		return TierFullCourse, nil
	}
	return "", ErrUnrecognizedTier
}

// MaxTier returns the higher of two tiers. Used by the upsert path where
// a repeat signup must never downgrade an account.
func MaxTier(a, b Tier) Tier {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

type Account struct {
	ID          string
	Email       string
	Name        string
	Tier        Tier
	CustomerID  *string // payment provider customer, if purchased
	OrderID     *string // partner order reference, if provisioned externally
	CreatedAt   time.Time
	LastLoginAt *time.Time
}

type MagicToken struct {
	ID         string
	AccountID  string
	TokenHash  string
	RememberMe bool
	ExpiresAt  time.Time
	UsedAt     *time.Time
	CreatedAt  time.Time
}
