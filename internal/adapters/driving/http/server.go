package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/caseindex-core/internal/core/ports/driven"
	"github.com/custodia-labs/caseindex-core/internal/core/ports/driving"
)

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	searchService  driving.SearchService
	synchronizer   driving.IndexSynchronizer
	catalogService driving.CatalogService

	// Infrastructure
	engine driven.SearchEngine
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	searchService driving.SearchService,
	synchronizer driving.IndexSynchronizer,
	catalogService driving.CatalogService,
	engine driven.SearchEngine,
) *Server {
	s := &Server{
		router:         http.NewServeMux(),
		version:        cfg.Version,
		searchService:  searchService,
		synchronizer:   synchronizer,
		catalogService: catalogService,
		engine:         engine,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health endpoints
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Search endpoints
	s.router.HandleFunc("POST /api/v1/search", s.handleSearch)
	s.router.HandleFunc("GET /api/v1/categories", s.handleCategories)
	s.router.HandleFunc("GET /api/v1/databases", s.handleDatabases)

	// Admin endpoints
	s.router.HandleFunc("POST /api/v1/admin/index", s.handleEnsureIndex)
	s.router.HandleFunc("POST /api/v1/admin/resync", s.handleResync)
	s.router.HandleFunc("GET /api/v1/admin/stats", s.handleStats)
}

// Handler returns the underlying router (useful for tests)
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
