// Package server provides the preview HTTP server: it serves the generated
// catalog output and a search API over the product index.
package server

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/shopfrontapp/shopfront/internal/search"
	"github.com/shopfrontapp/shopfront/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	index     *search.Index
	outputDir string
	validator *validation.Validator
	router    *chi.Mux
	api       huma.API
	logger    *slog.Logger
}

// New creates the preview server with all routes configured. index may be
// nil when the build ran without -index; the search endpoint then reports
// unavailable instead of failing at startup.
func New(index *search.Index, outputDir string, logger *slog.Logger) *Server {
	s := &Server{
		index:     index,
		outputDir: outputDir,
		validator: validation.New(),
		router:    chi.NewRouter(),
		logger:    logger,
	}

	s.setupMiddleware()

	humaConfig := huma.DefaultConfig("Shopfront Preview API", "1.0.0")
	s.api = humachi.New(s.router, humaConfig)
	RegisterErrorHandler()

	s.registerHealthRoutes()
	s.registerSearchRoutes()
	s.setupStaticRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// setupMiddleware configures the middleware stack. The preview page is
// served from the same origin, but wide-open CORS lets a locally developed
// storefront hit the search API too.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// setupStaticRoutes serves the generated catalog output. The build writes
// catalog.html plus an assets directory; everything is static files.
func (s *Server) setupStaticRoutes() {
	fs := http.FileServer(http.Dir(s.outputDir))
	s.router.Handle("/*", fs)
}
