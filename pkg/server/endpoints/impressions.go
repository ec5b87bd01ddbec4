package endpoints

import (
	"github.com/immpres/immpres-server/pkg/model"
	"github.com/immpres/immpres-server/pkg/server"
)

// RegisterImpressionsEndpoints registers the impressions API endpoints
func RegisterImpressionsEndpoints(s *server.Server) {
	registerResourceEndpoints(s, model.KindImpression, "/api/impressions")
}
