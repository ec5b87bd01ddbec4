package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/immpres/immpres-server/pkg/config"
	"github.com/immpres/immpres-server/pkg/identity"
	"github.com/immpres/immpres-server/pkg/model"
	"github.com/immpres/immpres-server/pkg/server/store"
	"github.com/immpres/immpres-server/pkg/token"
)

type mockUsersStore struct {
	mock.Mock
}

func (m *mockUsersStore) FindByLogin(login string) (*model.User, error) {
	args := m.Called(login)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsersStore) FindByID(id string) (*model.User, error) {
	args := m.Called(id)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsersStore) FindByIDAndToken(id, tok string) (*model.User, error) {
	args := m.Called(id, tok)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsersStore) FindByActivationToken(tok string) (*model.User, error) {
	args := m.Called(tok)
	if u := args.Get(0); u != nil {
		return u.(*model.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUsersStore) Create(user *model.User) error {
	return m.Called(user).Error(0)
}

func (m *mockUsersStore) Save(user *model.User) error {
	return m.Called(user).Error(0)
}

var testSecret = []byte("test-secret")

func newAuthenticator(users store.UsersStore) *TokenAuthenticator {
	return NewTokenAuthenticator(token.NewService(testSecret), users, &config.Config{})
}

// passthrough records whether the wrapped handler ran and what identity it saw.
type passthrough struct {
	called   bool
	identity *identity.Identity
}

func (p *passthrough) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p.called = true
		p.identity, _ = identity.Get(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(t *testing.T, auth *TokenAuthenticator, path, key, tok string) (*httptest.ResponseRecorder, *passthrough) {
	t.Helper()

	next := &passthrough{}
	req := httptest.NewRequest("GET", path, nil)
	if key != "" {
		req.Header.Set("x-key", key)
	}
	if tok != "" {
		req.Header.Set("x-access-token", tok)
	}

	rec := httptest.NewRecorder()
	auth.Middleware(next.handler()).ServeHTTP(rec, req)
	return rec, next
}

func TestAuthMissingHeaders(t *testing.T) {
	auth := newAuthenticator(&mockUsersStore{})

	rec, next := doRequest(t, auth, "/api/impressions", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid Token or Key")
	assert.False(t, next.called)

	rec, _ = doRequest(t, auth, "/api/impressions", "u-1", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = doRequest(t, auth, "/api/impressions", "", "sometoken")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthUndecodableToken(t *testing.T) {
	auth := newAuthenticator(&mockUsersStore{})

	rec, next := doRequest(t, auth, "/api/impressions", "u-1", "not-a-token")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, next.called)
}

func TestAuthExpiredTokenHalts(t *testing.T) {
	past := time.Now().Add(-30 * 24 * time.Hour)
	expiredTokens := token.NewService(testSecret, token.WithClock(func() time.Time { return past }))
	tok, _, err := expiredTokens.Issue("u-1")
	require.NoError(t, err)

	users := &mockUsersStore{}
	auth := newAuthenticator(users)

	rec, next := doRequest(t, auth, "/api/impressions", "u-1", tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token Expired")
	assert.False(t, next.called)

	// expiry rejects before the store is ever consulted
	users.AssertNotCalled(t, "FindByIDAndToken", mock.Anything, mock.Anything)
}

func TestAuthUnknownPair(t *testing.T) {
	tokens := token.NewService(testSecret)
	tok, _, err := tokens.Issue("u-1")
	require.NoError(t, err)

	users := &mockUsersStore{}
	users.On("FindByIDAndToken", "u-1", tok).Return(nil, store.ErrNotFound)
	auth := newAuthenticator(users)

	rec, next := doRequest(t, auth, "/api/impressions", "u-1", tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid Token or Key")
	assert.False(t, next.called)
}

func TestAuthKeyTokenMismatch(t *testing.T) {
	tokens := token.NewService(testSecret)
	tok, _, err := tokens.Issue("u-1")
	require.NoError(t, err)

	// the store resolves a user whose id differs from the token issuer
	users := &mockUsersStore{}
	users.On("FindByIDAndToken", "u-2", tok).Return(&model.User{ID: "u-2", Role: "user"}, nil)
	auth := newAuthenticator(users)

	rec, _ := doRequest(t, auth, "/api/impressions", "u-2", tok)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthAdminPath(t *testing.T) {
	tokens := token.NewService(testSecret)
	tok, _, err := tokens.Issue("u-1")
	require.NoError(t, err)

	users := &mockUsersStore{}
	users.On("FindByIDAndToken", "u-1", tok).Return(&model.User{ID: "u-1", Role: "user"}, nil)
	auth := newAuthenticator(users)

	rec, next := doRequest(t, auth, "/api/admin/users", "u-1", tok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not Authorized")
	assert.False(t, next.called)

	admins := &mockUsersStore{}
	admins.On("FindByIDAndToken", "u-1", tok).Return(&model.User{ID: "u-1", Role: "admin"}, nil)
	auth = newAuthenticator(admins)

	rec, next = doRequest(t, auth, "/api/admin/users", "u-1", tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, next.called)
}

func TestAuthOutsideAPIPrefix(t *testing.T) {
	tokens := token.NewService(testSecret)
	tok, _, err := tokens.Issue("u-1")
	require.NoError(t, err)

	users := &mockUsersStore{}
	users.On("FindByIDAndToken", "u-1", tok).Return(&model.User{ID: "u-1", Role: "user"}, nil)
	auth := newAuthenticator(users)

	rec, next := doRequest(t, auth, "/internal/debug", "u-1", tok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, next.called)
}

func TestAuthAccept(t *testing.T) {
	tokens := token.NewService(testSecret)
	tok, expiresAt, err := tokens.Issue("u-1")
	require.NoError(t, err)

	users := &mockUsersStore{}
	users.On("FindByIDAndToken", "u-1", tok).Return(&model.User{ID: "u-1", Role: "user"}, nil)
	auth := newAuthenticator(users)

	rec, next := doRequest(t, auth, "/api/impressions", "u-1", tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.True(t, next.called)
	require.NotNil(t, next.identity)
	assert.Equal(t, "u-1", next.identity.UserID)
	assert.Equal(t, "user", next.identity.Role)
	assert.WithinDuration(t, expiresAt, next.identity.ExpiresAt, time.Second)
}
