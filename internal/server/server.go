// Package server exposes the masking engine over HTTP for pipelines that
// prefer a long-lived scrubbing service to shelling out per file.
package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/maskd-io/maskd/internal/cache"
	"github.com/maskd-io/maskd/internal/config"
	"github.com/maskd-io/maskd/internal/events"
	"github.com/maskd-io/maskd/internal/logger"
	"github.com/maskd-io/maskd/internal/mask"
)

// Server is the HTTP masking service.
type Server struct {
	config *config.Config
	logger *logger.Logger
	router *mux.Router
	server *http.Server
	hub    *events.Hub

	limiter *rateLimiter
	cache   *cache.ResultCache // nil when disabled

	mu      sync.RWMutex
	masker  *mask.Masker
	masking config.MaskingConfig

	started         time.Time
	totalRequests   atomic.Int64
	totalDetections atomic.Int64
}

// New creates a server instance. The cache is optional: when enabled but
// unreachable, construction fails rather than silently running uncached.
func New(cfg *config.Config, log *logger.Logger) (*Server, error) {
	masker, err := mask.New(cfg.Masking, log.WithComponent("mask"))
	if err != nil {
		return nil, fmt.Errorf("failed to create masker: %w", err)
	}

	hub := events.NewHub(&events.HubConfig{
		BroadcastDetections:  cfg.Events.BroadcastDetections,
		BroadcastRequests:    cfg.Events.BroadcastRequests,
		BroadcastSystem:      cfg.Events.BroadcastSystem,
		BroadcastConnections: cfg.Events.BroadcastConnections,
		AllowedOrigins:       cfg.Events.AllowedOrigins,
	}, log.WithComponent("events").Logger)

	s := &Server{
		config:  cfg,
		logger:  log.WithComponent("server"),
		masker:  masker,
		masking: cfg.Masking,
		router:  mux.NewRouter(),
		hub:     hub,
		limiter: newRateLimiter(cfg.Server.RateLimit.Enabled, cfg.Server.RateLimit.RequestsPerMin, cfg.Server.RateLimit.Burst),
		started: time.Now(),
	}

	if cfg.Cache.Enabled {
		resultCache, err := cache.NewResultCache(&cache.Config{
			RedisURL:       cfg.Cache.RedisURL,
			MaxConnections: cfg.Cache.MaxConnections,
			MinIdleConns:   cfg.Cache.MinIdleConns,
			DefaultTTL:     cfg.Cache.DefaultTTL,
			KeyPrefix:      cfg.Cache.KeyPrefix,
		}, log.WithComponent("cache").Logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create result cache: %w", err)
		}
		s.cache = resultCache
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
	s.router.HandleFunc("/info", s.handleInfo).Methods("GET")

	if s.config.Events.Enabled {
		s.router.HandleFunc(s.config.Events.Path, s.handleWebSocket).Methods("GET")
	}

	api := s.router.PathPrefix("/v1").Subrouter()
	api.Use(s.loggingMiddleware)
	api.Use(s.rateLimitMiddleware)
	api.HandleFunc("/mask", s.handleMask).Methods("POST")
	api.HandleFunc("/analyze", s.handleAnalyze).Methods("POST")
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	_, mc := s.snapshot()
	s.logger.Info("Starting maskd API server",
		zap.Int("port", s.config.Server.Port),
		zap.String("strategy", string(mc.Strategy)),
		zap.Bool("cache_enabled", s.cache != nil),
	)

	go s.hub.Run()
	s.limiter.startCleanup()

	return s.server.ListenAndServe()
}

// Stop gracefully stops the HTTP server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping maskd API server")
	if s.cache != nil {
		defer s.cache.Close()
	}
	return s.server.Shutdown(ctx)
}

// Masker returns the current masker.
func (s *Server) Masker() *mask.Masker {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.masker
}

// snapshot returns the current masker together with the options it was
// built from. Handlers read only this pair, so a concurrent Reload can
// never hand them a masker from one configuration and options from another.
func (s *Server) snapshot() (*mask.Masker, config.MaskingConfig) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.masker, s.masking
}

// Reload swaps in a masker built from new masking options. Used by the
// config watcher; in-flight requests finish with the masker they started
// with.
func (s *Server) Reload(mc config.MaskingConfig) error {
	masker, err := mask.New(mc, s.logger.WithComponent("mask"))
	if err != nil {
		return fmt.Errorf("failed to rebuild masker: %w", err)
	}

	s.mu.Lock()
	s.masker = masker
	s.masking = mc
	s.mu.Unlock()

	s.logger.Info("Masker reloaded", zap.String("strategy", string(mc.Strategy)))
	return nil
}

// Hub returns the event hub for broadcasting server-level events.
func (s *Server) Hub() *events.Hub {
	return s.hub
}

// handleWebSocket hands the connection to the event hub.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.hub.HandleWebSocket(w, r)
}
