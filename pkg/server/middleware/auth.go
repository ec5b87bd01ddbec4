package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/immpres/immpres-server/pkg/config"
	"github.com/immpres/immpres-server/pkg/identity"
	"github.com/immpres/immpres-server/pkg/server/store"
	"github.com/immpres/immpres-server/pkg/token"
)

// APIPrefix is the protected route prefix the authenticator guards.
const APIPrefix = "/api/"

// TokenAuthenticator is middleware that validates the x-key/x-access-token
// header pair carried by every protected request.
type TokenAuthenticator struct {
	Tokens *token.Service
	Users  store.UsersStore
	Config *config.Config

	// now is the clock, overridable for tests.
	now func() time.Time
}

// NewTokenAuthenticator creates a new token authenticator middleware
func NewTokenAuthenticator(tokens *token.Service, users store.UsersStore, cfg *config.Config) *TokenAuthenticator {
	return &TokenAuthenticator{
		Tokens: tokens,
		Users:  users,
		Config: cfg,
		now:    time.Now,
	}
}

// Middleware returns an HTTP middleware that authenticates requests. Every
// rejection is terminal; in particular an expired token returns immediately
// rather than letting later checks run on a stale session.
func (a *TokenAuthenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("x-key")
		tokenStr := r.Header.Get("x-access-token")

		if key == "" || tokenStr == "" {
			reject(w, http.StatusUnauthorized, "Invalid Token or Key")
			return
		}

		session, err := a.Tokens.Verify(tokenStr)
		if err != nil {
			reject(w, http.StatusInternalServerError, "Failed to decode token")
			return
		}

		if session.Expired(a.now()) {
			reject(w, http.StatusBadRequest, "Token Expired")
			return
		}

		// The key must name the same principal the token was issued to, and
		// the token must still be the one on record.
		user, err := a.Users.FindByIDAndToken(key, tokenStr)
		if err != nil || user.ID != session.UserID {
			reject(w, http.StatusUnauthorized, "Invalid Token or Key")
			return
		}

		if hasAdminSegment(r.URL.Path) {
			if !user.IsAdmin() {
				reject(w, http.StatusForbidden, "Not Authorized")
				return
			}
		} else if !strings.HasPrefix(r.URL.Path, APIPrefix) {
			reject(w, http.StatusForbidden, "Not Authorized")
			return
		}

		id := &identity.Identity{
			UserID:    user.ID,
			Role:      user.Role,
			ExpiresAt: session.ExpiresAt,
		}
		id.WithRemoteIP(a.clientIP(r))

		next.ServeHTTP(w, r.WithContext(identity.Set(r.Context(), id)))
	})
}

// clientIP resolves the client address, honouring X-Forwarded-For only when
// the direct peer is a trusted proxy.
func (a *TokenAuthenticator) clientIP(r *http.Request) net.IP {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	if a.Config != nil && a.Config.IsTrustedProxy(host) {
		if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
			first := strings.TrimSpace(strings.Split(forwarded, ",")[0])
			if ip := net.ParseIP(first); ip != nil {
				return ip
			}
		}
	}

	return net.ParseIP(host)
}

// hasAdminSegment reports whether any path segment equals "admin".
func hasAdminSegment(path string) bool {
	for _, segment := range strings.Split(path, "/") {
		if segment == "admin" {
			return true
		}
	}
	return false
}

func reject(w http.ResponseWriter, code int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{"error": message})
}
