package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestIssueVerifyRoundTrip(t *testing.T) {
	svc := NewService(testSecret)

	for _, userID := range []string{"alice", "nvmbBdLw", "5f1c9d2e-aaaa-bbbb-cccc-0123456789ab"} {
		tok, expiresAt, err := svc.Issue(userID)
		require.NoError(t, err)

		session, err := svc.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, userID, session.UserID)
		assert.WithinDuration(t, expiresAt, session.ExpiresAt, time.Second)
		assert.False(t, session.Expired(time.Now()))
	}
}

func TestVerifyRejectsTamperedToken(t *testing.T) {
	svc := NewService(testSecret)

	tok, _, err := svc.Issue("alice")
	require.NoError(t, err)

	_, err = svc.Verify(tok + "x")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	svc := NewService(testSecret)
	other := NewService([]byte("another-secret-another-secret-xx"))

	tok, _, err := svc.Issue("alice")
	require.NoError(t, err)

	_, err = other.Verify(tok)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTTLSourceReadAtIssueTime(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ttl := time.Hour
	svc := NewService(testSecret,
		WithTTLSource(func() time.Duration { return ttl }),
		WithClock(func() time.Time { return issuedAt }),
	)

	_, expiresAt, err := svc.Issue("alice")
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(time.Hour), expiresAt)

	// A changed lifetime applies to the next issuance, not just new services.
	ttl = 30 * time.Minute
	assert.Equal(t, 30*time.Minute, svc.TTL())

	_, expiresAt, err = svc.Issue("alice")
	require.NoError(t, err)
	assert.Equal(t, issuedAt.Add(30*time.Minute), expiresAt)
}

func TestExpiredTokenStillDecodes(t *testing.T) {
	// The service clock is frozen in the past so the issued token is already
	// beyond its 7 day lifetime. Verify must still decode it; the expiry is
	// the caller's check.
	issuedAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	svc := NewService(testSecret, WithClock(func() time.Time { return issuedAt }))

	tok, _, err := svc.Issue("alice")
	require.NoError(t, err)

	session, err := svc.Verify(tok)
	require.NoError(t, err, "expired tokens must decode")
	assert.Equal(t, "alice", session.UserID)

	now := issuedAt.Add(DefaultTTL + time.Hour)
	assert.True(t, session.Expired(now))
	assert.False(t, session.Expired(issuedAt.Add(time.Hour)))
}

func TestExpiredBoundary(t *testing.T) {
	session := Session{ExpiresAt: time.Date(2024, 3, 8, 12, 0, 0, 0, time.UTC)}

	// expiresAt <= now counts as expired
	assert.True(t, session.Expired(session.ExpiresAt))
	assert.True(t, session.Expired(session.ExpiresAt.Add(time.Nanosecond)))
	assert.False(t, session.Expired(session.ExpiresAt.Add(-time.Nanosecond)))
}
