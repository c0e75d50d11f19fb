// Package token issues and verifies the compact signed bearer tokens used
// for sessions. A token is self-contained: verification needs only the
// signing secret, never a store lookup.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/practicelearn/course-portal/internal/domain"
)

var (
	ErrMalformed    = errors.New("token malformed")
	ErrBadSignature = errors.New("token signature mismatch")
	ErrExpired      = errors.New("token expired")
	ErrInvalid      = errors.New("token invalid")
)

// Identity is the claim set carried by every token.
type Identity struct {
	AccountID string
	Email     string
	Name      string
	Tier      domain.Tier
}

type claims struct {
	Email string      `json:"email"`
	Name  string      `json:"name"`
	Tier  domain.Tier `json:"tier"`
	jwt.RegisteredClaims
}

type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec builds a codec from the server-held signing secret. A short or
// empty secret is a startup error, never a silent fallback.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) < 32 {
		return nil, errors.New("signing secret must be at least 32 bytes")
	}
	return &Codec{secret: secret, now: time.Now}, nil
}

// Issue signs id with an absolute expiry of now+ttl. No side effects.
func (c *Codec) Issue(id Identity, ttl time.Duration) (string, error) {
	if !id.Tier.Valid() {
		return "", domain.ErrUnrecognizedTier
	}
	now := c.now()
	cl := claims{
		Email: id.Email,
		Name:  id.Name,
		Tier:  id.Tier,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.AccountID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, &cl).SignedString(c.secret)
}

// Verify checks the signature and expiry and returns the claim set.
// It fails closed: any parse failure that is not one of the recognized
// outcomes surfaces as ErrInvalid, never as claims with defaults.
func (c *Codec) Verify(raw string) (*Identity, error) {
	var cl claims
	_, err := jwt.ParseWithClaims(raw, &cl, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrBadSignature
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrExpired
		default:
			return nil, ErrInvalid
		}
	}

	if cl.Subject == "" || !cl.Tier.Valid() {
		return nil, ErrInvalid
	}

	return &Identity{
		AccountID: cl.Subject,
		Email:     cl.Email,
		Name:      cl.Name,
		Tier:      cl.Tier,
	}, nil
}
