// Package api provides the HTTP API server and handlers for the Inkshelf catalog.
package api

import (
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/inkshelf/inkshelf-server/internal/config"
	"github.com/inkshelf/inkshelf-server/internal/logger"
	"github.com/inkshelf/inkshelf-server/internal/service"
)

// Services bundles the service dependencies for the HTTP layer.
type Services struct {
	Books   *service.BookService
	Reviews *service.ReviewService
	Catalog *service.CatalogService
	Genres  *service.GenreService
	Covers  *service.CoverService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	services     *Services
	router       *chi.Mux
	api          huma.API
	logger       *logger.Logger
	writeLimiter *RateLimiter
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services *Services, cfg *config.Config, log *logger.Logger) *Server {
	router := chi.NewRouter()

	s := &Server{
		services:     services,
		router:       router,
		logger:       log,
		writeLimiter: NewRateLimiter(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.Burst),
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Inkshelf API", "1.0.0")
	s.api = humachi.New(router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerCatalogRoutes()
	s.registerBookRoutes()
	s.registerReviewRoutes()
	s.registerGenreRoutes()
	s.registerCoverRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Stop releases server resources.
func (s *Server) Stop() {
	s.writeLimiter.Stop()
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(WriteRateLimitMiddleware(s.writeLimiter, s.logger))
}
