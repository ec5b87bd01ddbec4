package endpoints

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/immpres/immpres-server/pkg/config"
	"github.com/immpres/immpres-server/pkg/model"
	"github.com/immpres/immpres-server/pkg/server"
	"github.com/immpres/immpres-server/pkg/token"
)

type testServer struct {
	srv       *server.Server
	users     *mockUsersStore
	resources *mockResourcesStore
	health    *mockHealthStore
}

func newTestServer() *testServer {
	users := &mockUsersStore{}
	resources := &mockResourcesStore{}
	health := &mockHealthStore{}

	cfg := &config.Config{
		APIResourceListLimitMax: 1000,
		SessionTokenTTL:         604800,
		BcryptCost:              4, // minimum cost keeps the hashing tests fast
	}
	tokens := token.NewService([]byte("endpoints-test-secret"))

	srv := server.NewServer(nil, tokens, cfg, users, resources, health, "127.0.0.1", "0")
	RegisterAll(srv)

	return &testServer{srv: srv, users: users, resources: resources, health: health}
}

// signIn issues a real session token for the user and teaches the mock store
// to resolve it, so requests travel the full middleware path.
func (ts *testServer) signIn(t *testing.T, user *model.User) (string, string) {
	t.Helper()

	signed, _, err := ts.srv.Tokens.Issue(user.ID)
	require.NoError(t, err)

	ts.users.On("FindByIDAndToken", user.ID, signed).Return(user, nil)
	return user.ID, signed
}

func (ts *testServer) do(method, path string, body interface{}, key, accessToken string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		encoded, _ := json.Marshal(body)
		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, path, reader)
	if key != "" {
		req.Header.Set("x-key", key)
		req.Header.Set("x-access-token", accessToken)
	}

	rec := httptest.NewRecorder()
	ts.srv.Router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}
