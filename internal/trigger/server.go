package trigger

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aleister1102/expirywatch/internal/config"
	"github.com/aleister1102/expirywatch/internal/metrics"
	"github.com/aleister1102/expirywatch/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// PassService is the reconciliation surface exposed over HTTP.
type PassService interface {
	RunPass(ctx context.Context, source models.PassSource) (models.PassResult, error)
	CheckDomain(ctx context.Context, id int64) (*time.Time, error)
}

// Server is the on-demand trigger HTTP server.
type Server struct {
	httpServer *http.Server
	router     chi.Router
	logger     zerolog.Logger
}

// NewServer wires the trigger routes. gatherer may be nil to disable /metrics.
func NewServer(cfg config.TriggerConfig, service PassService, m *metrics.Metrics, gatherer prometheus.Gatherer, logger zerolog.Logger) *Server {
	moduleLogger := logger.With().Str("module", "TriggerServer").Logger()

	h := &handler{
		service: service,
		metrics: m,
		logger:  moduleLogger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(moduleLogger))

	r.Group(func(r chi.Router) {
		r.Use(requireToken(cfg.Token, m, moduleLogger))
		r.Get("/api/cron", h.handleCron)
		r.Get("/api/check/{id}", h.handleCheck)
	})

	if cfg.MetricsEnabled && gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.ListenAddr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		router: r,
		logger: moduleLogger,
	}
}

// Handler returns the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info().Str("addr", s.httpServer.Addr).Msg("Trigger server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down trigger server")
	return s.httpServer.Shutdown(ctx)
}
