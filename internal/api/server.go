// Package api exposes profiles and search over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/talent-discovery/internal/logger"
	"github.com/spigell/talent-discovery/internal/profile"
	"github.com/spigell/talent-discovery/internal/search"
)

const (
	DefaultAddr = ":8000"

	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// DefaultCORSOrigins are the local UI origins allowed when none are configured.
var DefaultCORSOrigins = []string{"http://localhost:8501", "http://localhost:8502"}

type Config struct {
	Addr         string        `mapstructure:"addr"`
	CORSOrigins  []string      `mapstructure:"cors-origins"`
	ReadTimeout  time.Duration `mapstructure:"read-timeout"`
	WriteTimeout time.Duration `mapstructure:"write-timeout"`
}

// Searcher runs a ranked search over stored profiles.
type Searcher interface {
	Search(ctx context.Context, query string) (*search.Ranking, error)
}

type Server struct {
	cfg      Config
	profiles profile.Store
	searcher Searcher
	logger   *zap.Logger
}

func NewServer(cfg Config, profiles profile.Store, searcher Searcher, log *zap.Logger) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if len(cfg.CORSOrigins) == 0 {
		cfg.CORSOrigins = DefaultCORSOrigins
	}

	return &Server{
		cfg:      cfg,
		profiles: profiles,
		searcher: searcher,
		logger:   logger.OrNop(log),
	}
}

// Handler returns the routed handler with all middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.health)

	mux.HandleFunc("POST /api/v1/profiles", s.createProfile)
	mux.HandleFunc("GET /api/v1/profiles", s.listProfiles)
	mux.HandleFunc("GET /api/v1/profiles/{id}", s.getProfile)
	mux.HandleFunc("PUT /api/v1/profiles/{id}", s.updateProfile)
	mux.HandleFunc("PATCH /api/v1/profiles/{id}", s.updateProfile)
	mux.HandleFunc("DELETE /api/v1/profiles/{id}", s.deleteProfile)

	mux.HandleFunc("GET /api/v1/search", s.search)
	mux.HandleFunc("GET /api/v1/search/health", s.searchHealth)

	var h http.Handler = mux
	h = trimTrailingSlash(h)
	h = cors(s.cfg.CORSOrigins)(h)
	h = accessLog(s.logger)(h)
	return h
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.cfg.ReadTimeout,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.cfg.WriteTimeout,
		ErrorLog:          zap.NewStdLog(s.logger),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server started", zap.String("addr", ln.Addr().String()))
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down api server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
