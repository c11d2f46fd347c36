package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"VectorConsole/backend/go/internal/config"
	"VectorConsole/backend/go/pkg/circuitbreaker"
	"VectorConsole/backend/go/pkg/httpmiddleware"
	"VectorConsole/backend/go/pkg/ratelimiter"
)

// Middleware defines a function to wrap an http.Handler.
type Middleware func(http.Handler) http.Handler

// Server wraps http.Server and puts the configured middleware in front of the application handler.
type Server struct {
	httpServer *http.Server
}

// ServerOption defines a function for configuring a Server.
type ServerOption func(*Server)

// WithAddress overrides server.address.
func WithAddress(addr string) ServerOption {
	return func(s *Server) {
		s.httpServer.Addr = addr
	}
}

// NewServer builds the server for handler. Rate limiting runs before circuit breaking.
func NewServer(cfg *config.AppConfig, handler http.Handler, opts ...ServerOption) (*Server, error) {
	var middlewares []Middleware

	if cfg.Middleware.RateLimiter.Enabled {
		limiter, err := createRateLimiter(cfg.Middleware.RateLimiter)
		if err != nil {
			return nil, fmt.Errorf("failed to create rate limiter: %w", err)
		}
		log.Printf("Enabling Rate Limiter middleware with algorithm: %s", cfg.Middleware.RateLimiter.Algorithm)
		middlewares = append(middlewares, httpmiddleware.RateLimit(limiter, httpmiddleware.ClientKey))
	}

	if cfg.Middleware.CircuitBreaker.Enabled {
		breaker, err := createCircuitBreaker(cfg.Middleware.CircuitBreaker)
		if err != nil {
			return nil, fmt.Errorf("failed to create circuit breaker: %w", err)
		}
		log.Println("Enabling Circuit Breaker middleware.")
		middlewares = append(middlewares, httpmiddleware.CircuitBreak(breaker))
	}

	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	srv := &Server{
		httpServer: &http.Server{
			Addr:         cfg.Server.Address,
			Handler:      handler,
			ReadTimeout:  config.Duration(cfg.Server.ReadTimeout, 15*time.Second),
			WriteTimeout: config.Duration(cfg.Server.WriteTimeout, 60*time.Second),
		},
	}
	for _, opt := range opts {
		opt(srv)
	}
	if srv.httpServer.Addr == "" {
		srv.httpServer.Addr = ":8080"
	}
	return srv, nil
}

// Handler returns the handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	log.Printf("Starting server on %s", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func createRateLimiter(cfg config.RateLimiterConfig) (*ratelimiter.Keyed, error) {
	var factory ratelimiter.Factory
	switch cfg.Algorithm {
	case "", "tokenBucket":
		conf := cfg.TokenBucket
		factory = func() ratelimiter.RateLimiter { return ratelimiter.NewTokenBucket(conf.Rate, conf.Capacity) }
	case "fixedWindow":
		conf := cfg.FixedWindow
		window, err := time.ParseDuration(conf.Window)
		if err != nil {
			return nil, fmt.Errorf("invalid fixedWindow duration: %w", err)
		}
		factory = func() ratelimiter.RateLimiter { return ratelimiter.NewFixedWindowCounter(conf.Limit, window) }
	default:
		return nil, fmt.Errorf("unknown rate limiter algorithm: %s", cfg.Algorithm)
	}

	maxClients := cfg.MaxClients
	if maxClients <= 0 {
		maxClients = 1024
	}
	return ratelimiter.NewKeyed(factory, maxClients)
}

func createCircuitBreaker(cfg config.CircuitBreakerConfig, opts ...circuitbreaker.Option) (circuitbreaker.CircuitBreaker, error) {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid circuit breaker timeout duration: %w", err)
	}
	return circuitbreaker.New(cfg.FailureThreshold, cfg.SuccessThreshold, timeout, opts...), nil
}
