// Package token issues and verifies the two kinds of bearer tokens used by
// the API: short-lived access tokens and long-lived refresh tokens. Tokens are
// stateless HS256 JWTs; a token is valid iff its signature verifies and it has
// not expired. The two kinds are never interchangeable: each is signed with
// its own secret and stamped with a kind-specific audience claim, so a token
// presented as the wrong kind fails verification even when a deployment runs
// both kinds on a single secret.
package token

import (
	"errors"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/golang-jwt/jwt/v5"
)

// Kind selects the secret and lifetime bound to a token class.
type Kind int

const (
	// Access tokens authenticate API requests.
	Access Kind = iota
	// Refresh tokens are exchanged for a fresh pair.
	Refresh
)

// Audience values distinguishing the two kinds inside the token itself.
const (
	audAccess  = "access"
	audRefresh = "refresh"
)

// Default lifetimes, overridable through Issuer construction.
const (
	DefaultAccessTTL  = 15 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

var (
	// ErrExpired indicates the token's expiration is in the past.
	ErrExpired = errors.New("token expired")
	// ErrInvalid indicates a bad signature or malformed token.
	ErrInvalid = errors.New("token invalid")
	// ErrMissingSubject indicates a verified token without a principal claim.
	ErrMissingSubject = errors.New("token missing subject")
)

// Issuer signs and verifies access/refresh tokens with independent secrets
// and independent lifetimes.
type Issuer struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

// Option configures an Issuer.
type Option func(*Issuer)

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) Option {
	return func(i *Issuer) {
		if fn != nil {
			i.now = fn
		}
	}
}

// NewIssuer constructs an Issuer. An empty refresh secret falls back to the
// access secret; non-positive TTLs fall back to the defaults.
func NewIssuer(accessSecret, refreshSecret []byte, accessTTL, refreshTTL time.Duration, opts ...Option) *Issuer {
	if len(refreshSecret) == 0 {
		refreshSecret = accessSecret
	}
	if accessTTL <= 0 {
		accessTTL = DefaultAccessTTL
	}
	if refreshTTL <= 0 {
		refreshTTL = DefaultRefreshTTL
	}
	iss := &Issuer{
		accessSecret:  accessSecret,
		refreshSecret: refreshSecret,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(iss)
	}
	return iss
}

func (i *Issuer) secret(kind Kind) []byte {
	if kind == Refresh {
		return i.refreshSecret
	}
	return i.accessSecret
}

func (i *Issuer) ttl(kind Kind) time.Duration {
	if kind == Refresh {
		return i.refreshTTL
	}
	return i.accessTTL
}

func audience(kind Kind) string {
	if kind == Refresh {
		return audRefresh
	}
	return audAccess
}

// Issue creates a signed HS256 JWT of the given kind with the subject as the
// principal claim and an expiration derived from the kind's lifetime.
func (i *Issuer) Issue(subject uuid.UUID, kind Kind) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   subject.String(),
		Audience:  jwt.ClaimStrings{audience(kind)},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl(kind))),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(i.secret(kind))
	if err != nil {
		return "", err
	}
	return signed, nil
}

// Verify checks the token's signature, expiration, and audience against the
// given kind and returns the subject. It fails with ErrExpired, ErrInvalid, or
// ErrMissingSubject; all three are terminal for the calling flow.
func (i *Issuer) Verify(tokenString string, kind Kind) (uuid.UUID, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return i.secret(kind), nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(audience(kind)),
		jwt.WithTimeFunc(i.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return uuid.Nil, ErrExpired
	default:
		return uuid.Nil, ErrInvalid
	}

	if claims.Subject == "" {
		return uuid.Nil, ErrMissingSubject
	}
	subject, err := uuid.FromString(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalid
	}
	return subject, nil
}
