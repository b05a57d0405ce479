package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/place-resolver/internal/domain"
)

// LocationResolver resolves a coordinate to a display label.
type LocationResolver interface {
	Lookup(ctx context.Context, c domain.Coordinate) domain.Resolution
}

// PlaceSearcher runs forward searches.
type PlaceSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.Place, error)
}

// Server exposes the location API plus health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates an HTTP server with /api/v1/locations/*, /healthz, /readyz, and /metrics routes.
func NewServer(addr string, resolver LocationResolver, searcher PlaceSearcher, ready sharedobs.ReadinessChecker, logger *slog.Logger) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestID(logger))

	router.GET("/healthz", gin.WrapF(sharedobs.LivenessHandler()))
	router.GET("/readyz", gin.WrapF(sharedobs.ReadinessHandler(ready)))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := &locationHandler{resolver: resolver, searcher: searcher, logger: logger}
	v1 := router.Group("/api/v1/locations")
	v1.GET("/reverse", h.reverse)
	v1.GET("/search", h.search)
	v1.GET("/geocode", h.geocode)

	return &Server{
		httpServer: &http.Server{
			Addr:    addr,
			Handler: router,
			// Reverse lookups may wait out a full geocoder timeout.
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}
