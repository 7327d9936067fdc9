// Package httpapi exposes the document tools as a JSON REST API, for
// callers that are not MCP clients.
package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/inkognito-mcp/inkognito/internal/config"
	"github.com/inkognito-mcp/inkognito/internal/logger"
	"github.com/inkognito-mcp/inkognito/internal/service"
)

// Server represents the HTTP API server
type Server struct {
	config  *config.Config
	logger  *logger.Logger
	service *service.Service
	router  *mux.Router
	server  *http.Server
	version string
}

// New creates a new API server instance
func New(cfg *config.Config, svc *service.Service, version string, log *logger.Logger) *Server {
	s := &Server{
		config:  cfg,
		logger:  log.WithComponent("httpapi"),
		service: svc,
		router:  mux.NewRouter(),
		version: version,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/info", s.handleInfo).Methods("GET")

	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.loggingMiddleware)
	api.HandleFunc("/anonymize", s.handleAnonymize).Methods("POST")
	api.HandleFunc("/restore", s.handleRestore).Methods("POST")
	api.HandleFunc("/extract", s.handleExtract).Methods("POST")
	api.HandleFunc("/segment", s.handleSegment).Methods("POST")
	api.HandleFunc("/split", s.handleSplit).Methods("POST")
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
