package endpoints

import (
	"github.com/immpres/immpres-server/pkg/server"
)

// RegisterAll registers all API endpoints on the server
func RegisterAll(srv *server.Server) {
	RegisterAuthEndpoints(srv)
	RegisterImpressionsEndpoints(srv)
	RegisterObjectsEndpoints(srv)
	RegisterUsersEndpoints(srv)
	RegisterStatusEndpoints(srv)
}
