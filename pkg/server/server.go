package server

import (
	"net"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/immpres/immpres-server/pkg/config"
	"github.com/immpres/immpres-server/pkg/server/store"
	"github.com/immpres/immpres-server/pkg/token"
)

// Server wires the router, database handle, token service and stores
// together. Endpoints register themselves against it.
type Server struct {
	Router *mux.Router
	DB     *gorm.DB
	Tokens *token.Service
	Config *config.Config

	UsersStore     store.UsersStore
	ResourcesStore store.ResourcesStore
	HealthStore    store.HealthStore

	srv *http.Server
}

func NewServer(
	db *gorm.DB,
	tokens *token.Service,
	cfg *config.Config,
	users store.UsersStore,
	resources store.ResourcesStore,
	health store.HealthStore,
	host string,
	port string,
) *Server {

	router := mux.NewRouter().UseEncodedPath()
	srv := &http.Server{
		Handler: handlers.LoggingHandler(os.Stdout, router),
		Addr:    host + ":" + port,
		// Good practice: enforce timeouts for servers you create!
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}

	return &Server{
		Router:         router,
		DB:             db,
		Tokens:         tokens,
		Config:         cfg,
		UsersStore:     users,
		ResourcesStore: resources,
		HealthStore:    health,
		srv:            srv,
	}
}

func (s Server) Start() error {
	return s.srv.ListenAndServe()
}

// StartWithListener serves on an already-bound listener. Used by the
// integration harness to avoid port races.
func (s Server) StartWithListener(l net.Listener) error {
	return s.srv.Serve(l)
}
