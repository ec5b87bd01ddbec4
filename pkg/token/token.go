// Package token issues and verifies the signed session tokens carried in the
// x-access-token header.
//
// Verification is split in two on purpose: Verify only proves the signature
// and decodes the claims, while expiry is a separate, explicit check on the
// returned Session. Callers must consult Session.Expired and stop; the
// middleware is the single place that turns an expired session into an HTTP
// rejection.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the session token lifetime.
const DefaultTTL = 7 * 24 * time.Hour

// ErrInvalidToken is returned when a token fails to decode or its signature
// does not verify. It deliberately carries no detail about which.
var ErrInvalidToken = errors.New("invalid token")

// Session is the verified content of a session token. Expiry has NOT been
// checked; call Expired.
type Session struct {
	UserID    string
	ExpiresAt time.Time
}

// Expired reports whether the session has lapsed at the given instant.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// Service issues and verifies HS256-signed session tokens with a
// process-wide secret.
type Service struct {
	secret []byte
	ttl    func() time.Duration
	now    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithTTL overrides the token lifetime with a fixed duration.
func WithTTL(ttl time.Duration) Option {
	return WithTTLSource(func() time.Duration { return ttl })
}

// WithTTLSource reads the token lifetime at issue time. Wiring the live
// configuration here means a reload applies to every token issued after it.
func WithTTLSource(source func() time.Duration) Option {
	return func(s *Service) { s.ttl = source }
}

// WithClock overrides the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a token service keyed by the process-wide secret.
func NewService(secret []byte, opts ...Option) *Service {
	s := &Service{
		secret: secret,
		ttl:    func() time.Duration { return DefaultTTL },
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TTL returns the current token lifetime.
func (s *Service) TTL() time.Duration {
	return s.ttl()
}

// Issue produces a signed token for the user. The expiry is embedded in the
// claims, so two calls for the same user yield distinct tokens without a
// nonce. Issue has no side effects; the caller persists the token onto the
// user's credential.
func (s *Service) Issue(userID string) (string, time.Time, error) {
	expiresAt := s.now().Add(s.ttl())

	claims := jwt.RegisteredClaims{
		Issuer:    userID,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and decodes the claims. It does NOT reject
// expired tokens; the caller owns the expiry comparison via Session.Expired.
func (s *Service) Verify(tokenStr string) (*Session, error) {
	parsed, err := jwt.ParseWithClaims(
		tokenStr,
		&jwt.RegisteredClaims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, ErrInvalidToken
			}
			return s.secret, nil
		},
		jwt.WithoutClaimsValidation(),
	)
	if err != nil || !parsed.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Issuer == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}

	return &Session{
		UserID:    claims.Issuer,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
