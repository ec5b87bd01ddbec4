package identity

import (
	"context"
	"net"
	"time"
)

// ContextKey is a type for context keys to avoid collisions.
type ContextKey string

const (
	// Key is the context key for Identity.
	Key ContextKey = "identity"
)

// Identity represents the authenticated identity for a request. It is placed
// on the request context by the token middleware and consumed by handlers.
type Identity struct {
	// UserID is the principal's id (the x-key header, verified against the
	// token and the credential store).
	UserID string
	// Role is the account role ("user" or "admin").
	Role string
	// ExpiresAt is the session token expiry the middleware already checked.
	ExpiresAt time.Time

	// RemoteIP is the client address, for audit events.
	RemoteIP net.IP
}

// IsAdmin reports whether the identity holds the admin role.
func (i *Identity) IsAdmin() bool {
	return i.Role == "admin"
}

// WithRemoteIP sets the remote IP address.
func (i *Identity) WithRemoteIP(ip net.IP) *Identity {
	i.RemoteIP = ip
	return i
}

// Get retrieves Identity from context.
func Get(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(Key).(*Identity)
	return id, ok
}

// Set stores Identity in context.
func Set(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, Key, id)
}
