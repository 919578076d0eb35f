package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/contactkit/contactd/internal/config"
	"github.com/contactkit/contactd/internal/log"
	"github.com/contactkit/contactd/internal/store"
)

// Server represents the API server
type Server struct {
	router     *chi.Mux
	httpServer *http.Server
	handler    *Handler
}

// NewServer creates a new API server over the given store.
func NewServer(cfg *config.Config, st store.Store) *Server {
	s := &Server{
		router:  chi.NewRouter(),
		handler: NewHandler(st, cfg),
	}

	// Setup middleware
	s.router.Use(Recovery(cfg.IsProduction()))
	s.router.Use(AccessLog(cfg.Server.AccessLogFormat))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(JSONContentType)

	// Setup routes
	s.setupRoutes()

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         cfg.Server.BindAddress,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.Route("/contacts", func(r chi.Router) {
		r.Get("/", s.handler.GetContacts)
		r.Post("/", s.handler.PostContacts)
		r.Put("/", s.handler.PutContact)
		r.Delete("/", s.handler.DeleteContacts)
	})

	// Health check endpoint at root
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	// Anything unmatched, including unsupported methods on known paths,
	// reports the same not-found envelope.
	notFound := func(w http.ResponseWriter, r *http.Request) {
		RespondNotFound(w, "Endpoint not found")
	}
	s.router.NotFound(notFound)
	s.router.MethodNotAllowed(notFound)
}

// Router returns the HTTP handler, exposed for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the API server
func (s *Server) Start() error {
	log.Infof("[API] Starting server on %s", s.httpServer.Addr)
	log.Infof("[API] Example: curl http://%s/contacts", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Stop gracefully stops the API server
func (s *Server) Stop(ctx context.Context) error {
	log.Infof("[API] Shutting down server...")
	return s.httpServer.Shutdown(ctx)
}
