package endpoints

import (
	"github.com/immpres/immpres-server/pkg/model"
	"github.com/immpres/immpres-server/pkg/server"
)

// RegisterObjectsEndpoints registers the objects API endpoints
func RegisterObjectsEndpoints(s *server.Server) {
	registerResourceEndpoints(s, model.KindObject, "/api/objects")
}
