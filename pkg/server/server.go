// Package server provides the HTTP server surface for kube-trim: system
// endpoints (/, /health, /ready, /metrics) plus registered API handlers,
// with rate limiting and graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"golang.org/x/time/rate"

	kuberrors "github.com/kubetrim/kube-trim/pkg/errors"
)

// Server serves the kube-trim API.
type Server struct {
	name    string
	version string
	cfg     *Config

	handlers map[string]http.HandlerFunc
	limiter  *rate.Limiter

	mu    sync.RWMutex
	ready bool
}

// Option configures a Server.
type Option func(*Server)

// WithName sets the server name reported on the default route.
func WithName(name string) Option {
	return func(s *Server) { s.name = name }
}

// WithVersion sets the version reported on the default route.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// WithConfig replaces the default configuration.
func WithConfig(cfg *Config) Option {
	return func(s *Server) {
		if cfg != nil {
			s.cfg = cfg
		}
	}
}

// WithHandler registers API handlers by path. Paths must start with "/".
func WithHandler(handlers map[string]http.HandlerFunc) Option {
	return func(s *Server) {
		for path, handler := range handlers {
			s.handlers[path] = handler
		}
	}
}

// New creates a Server with the given options.
func New(opts ...Option) *Server {
	s := &Server{
		name:     "kube-trim",
		version:  "dev",
		cfg:      DefaultConfig(),
		handlers: make(map[string]http.HandlerFunc),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.cfg.RateLimit > 0 {
		s.limiter = rate.NewLimiter(s.cfg.RateLimit, s.cfg.RateLimitBurst)
	}
	return s
}

// SetReady flips the readiness flag served on /ready.
func (s *Server) SetReady(ready bool) {
	s.mu.Lock()
	s.ready = ready
	s.mu.Unlock()
}

// validate rejects bad configuration before any port is bound.
func (s *Server) validate() error {
	if s.cfg.Port < 1 || s.cfg.Port > 65535 {
		return kuberrors.Newf(kuberrors.ErrCodeInvalidRequest, "invalid port %d", s.cfg.Port)
	}
	for path, handler := range s.handlers {
		if !strings.HasPrefix(path, "/") {
			return kuberrors.Newf(kuberrors.ErrCodeInvalidRequest, "handler path %q must start with /", path)
		}
		if handler == nil {
			return kuberrors.Newf(kuberrors.ErrCodeInvalidRequest, "handler for %q is nil", path)
		}
	}
	return nil
}

// Run starts the server and blocks until the context is canceled or a
// termination signal arrives, then shuts down gracefully. Configuration is
// validated before the listen socket is opened.
func (s *Server) Run(ctx context.Context) error {
	if err := s.validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	addr := net.JoinHostPort(s.cfg.Address, fmt.Sprintf("%d", s.cfg.Port))
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:      s.setupRoutes(),
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(listener)
	}()

	slog.Info("server listening",
		"name", s.name,
		"version", s.version,
		"address", addr,
	)

	select {
	case err := <-serveErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down server", "timeout", s.cfg.ShutdownTimeout.String())
	s.SetReady(false)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
