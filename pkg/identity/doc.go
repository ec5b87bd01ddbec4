// Package identity carries the authenticated principal through the request
// context.
//
// The token middleware resolves the x-key/x-access-token pair into an
// Identity and stores it on the context; resource handlers read it back with
// Get. Handlers never re-derive identity from headers.
package identity
