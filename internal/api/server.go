// Package api serves the devportal HTTP surface: developer-account
// submission, slug availability checks, and batched app translations.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zenhub-store/devportal/internal/config"
	"github.com/zenhub-store/devportal/internal/metrics"
	"github.com/zenhub-store/devportal/internal/middleware"
	"github.com/zenhub-store/devportal/internal/onboarding"
	"github.com/zenhub-store/devportal/internal/translations"
	"github.com/zenhub-store/devportal/pkg/logger"
)

// Server wires the route handlers, middleware chain, and listener.
type Server struct {
	cfg       *config.Config
	log       *logger.Logger
	metrics   *metrics.Metrics
	directory onboarding.Directory
	overrides translations.OverrideLookup
	registry  *prometheus.Registry

	router *mux.Router
	http   *http.Server
}

// NewServer assembles the full HTTP stack.
func NewServer(cfg *config.Config, directory onboarding.Directory, overrides translations.OverrideLookup, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewDefault("api")
	}

	registry := prometheus.NewRegistry()
	s := &Server{
		cfg:       cfg,
		log:       log,
		metrics:   metrics.New(registry),
		directory: directory,
		overrides: overrides,
		registry:  registry,
	}
	s.router = s.buildRouter()
	s.http = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return s
}

func (s *Server) buildRouter() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.HandleFunc("/dev-accounts", s.handleSubmit).Methods(http.MethodPost)
	v1.HandleFunc("/dev-accounts/slug-check", s.handleSlugCheck).Methods(http.MethodGet)
	v1.HandleFunc("/dev-accounts/verification-link", s.handleVerificationLink).Methods(http.MethodGet)
	v1.HandleFunc("/apps/translations", s.handleTranslations).Methods(http.MethodGet)
	v1.HandleFunc("/country-codes", s.handleCountryCodes).Methods(http.MethodGet)

	skipAuth := []string{"/healthz", "/metrics", "/v1/dev-accounts/slug-check", "/v1/apps/translations", "/v1/country-codes"}
	auth := middleware.NewAuthMiddleware(s.cfg.Auth.JWTSecret, s.log, skipAuth)
	limiter := middleware.NewRateLimiter(s.cfg.Server.RateLimitPerSec, s.cfg.Server.RateLimitBurst, s.log)
	cors := middleware.NewCORSMiddleware(s.cfg.Server.AllowedOrigins)

	r.Use(cors.Handler)
	r.Use(middleware.LoggingMiddleware(s.log))
	r.Use(middleware.MetricsMiddleware(s.metrics))
	r.Use(auth.Handler)
	r.Use(limiter.Handler)

	return r
}

// Handler exposes the assembled router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins serving and blocks until the listener fails or closes.
func (s *Server) Start() error {
	s.log.WithField("addr", s.cfg.Server.Addr).Info("devportal API listening")
	return s.http.ListenAndServe()
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
