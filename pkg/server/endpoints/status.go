package endpoints

import (
	"net/http"
	"os"

	"github.com/immpres/immpres-server/pkg/server"
	"github.com/immpres/immpres-server/pkg/server/store"
)

// StatusResponse reports the service name, version and store reachability.
type StatusResponse struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Store   string `json:"store"`
}

// RegisterStatusEndpoints registers the status endpoint. It sits outside the
// protected API prefix: anyone may probe liveness.
func RegisterStatusEndpoints(s *server.Server) {
	s.Router.HandleFunc("/", handleStatus(s.HealthStore)).Methods("GET")
}

func handleStatus(health store.HealthStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("IMMPRES_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		response := StatusResponse{
			Name:    "immpres",
			Version: version,
			Store:   "ok",
		}

		if err := health.CheckConnectivity(); err != nil {
			response.Store = "unreachable"
			respondWithJSON(w, http.StatusServiceUnavailable, response)
			return
		}

		respondWithJSON(w, http.StatusOK, response)
	}
}
