// Package server wires handlers and middleware onto an http.Server with
// per-route chains for authentication, tier gating, and rate limiting.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/injlabs/marketlens/internal/domain"
	"github.com/injlabs/marketlens/internal/server/handler"
	"github.com/injlabs/marketlens/internal/server/middleware"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port             int
	CORSOrigins      []string
	RateLimitEnabled bool
	RateLimitWindow  time.Duration
}

// Handlers aggregates all HTTP handlers that the server needs to register.
type Handlers struct {
	Health    *handler.HealthHandler
	Identity  *handler.IdentityHandler
	Analytics *handler.AnalyticsHandler
}

// Server is the HTTP API server for the analytics service.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	logger     *slog.Logger
}

// NewServer creates a new Server with all routes registered on the ServeMux.
// Identity routes are rate limited per client IP; analytics routes require a
// valid token, a sufficient tier, and a per-wallet budget.
func NewServer(cfg Config, handlers Handlers, verifier middleware.TokenVerifier, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	limit := func(next http.Handler) http.Handler { return next }
	if cfg.RateLimitEnabled {
		limit = middleware.RateLimit(limiter, cfg.RateLimitWindow)
	}
	auth := middleware.Auth(verifier)

	gated := func(required domain.Tier, h http.HandlerFunc) http.Handler {
		return auth(limit(middleware.RequireTier(required)(h)))
	}

	// Health check (no auth, no limit).
	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	// Identity endpoints: anonymous, budgeted per client IP.
	mux.Handle("POST /api/v1/auth/challenge", limit(http.HandlerFunc(handlers.Identity.Challenge)))
	mux.Handle("POST /api/v1/verify-identity", limit(http.HandlerFunc(handlers.Identity.Verify)))

	// Analytics endpoints: token required, tier gated, budgeted per wallet.
	mux.Handle("GET /api/v1/analytics/advanced-orderbook",
		gated(domain.TierNFTHolder, handlers.Analytics.AdvancedOrderbook))
	mux.Handle("GET /api/v1/analytics/market-intelligence",
		gated(domain.TierPremium, handlers.Analytics.MarketIntelligence))
	mux.Handle("GET /api/v1/analytics/personalized-signals",
		gated(domain.TierNFTHolder, handlers.Analytics.PersonalizedSignals))

	// Build the outer middleware chain.
	var h http.Handler = mux
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: srv,
		mux:        mux,
		logger:     logger,
	}
}

// Start begins listening for HTTP requests. It blocks until the server
// encounters an error or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting",
		slog.String("addr", s.httpServer.Addr),
	)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server, waiting for in-flight requests
// to complete within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
