package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"moviesuggest/internal/config"
	"moviesuggest/internal/locale"
	"moviesuggest/internal/logging"
	"moviesuggest/internal/providers"
	"moviesuggest/internal/tmdb"
)

const shutdownTimeout = 5 * time.Second

// Service is the pipeline surface the HTTP handlers call into.
type Service interface {
	Suggest(ctx context.Context, preferences string, loc locale.Locale) ([]tmdb.Record, error)
	Trending(ctx context.Context, window tmdb.TimeWindow, loc locale.Locale) ([]tmdb.Record, error)
	Popular(ctx context.Context, loc locale.Locale) ([]tmdb.Record, error)
	Providers(ctx context.Context, movieID int64, country string) ([]providers.Offer, error)
}

// Options configures the HTTP surface.
type Options struct {
	Bind              string
	CORSOrigins       []string
	RateLimitRequests int
	RateLimitWindow   time.Duration
	RequestTimeout    time.Duration
}

// OptionsFromConfig maps the [server] section onto Options.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{}
	}
	return Options{
		Bind:              cfg.Server.Bind,
		CORSOrigins:       cfg.Server.CORSOrigins,
		RateLimitRequests: cfg.Server.RateLimitRequests,
		RateLimitWindow:   cfg.RateLimitWindow(),
		RequestTimeout:    cfg.RequestTimeout(),
	}
}

// Server owns the listener and the routed handler.
type Server struct {
	bind    string
	logger  *slog.Logger
	handler http.Handler

	listener net.Listener
	server   *http.Server
}

// New builds the router. The server does not listen until Start.
func New(opts Options, svc Service, logger *slog.Logger) (*Server, error) {
	if svc == nil {
		return nil, errors.New("server: service is required")
	}
	logger = logging.NewComponentLogger(logger, "api-server")
	s := &Server{
		bind:   strings.TrimSpace(opts.Bind),
		logger: logger,
	}
	h := &handlers{service: svc, logger: logger}
	s.handler = newRouter(opts, h, logger)
	s.server = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// Suggestions wait on the language model plus a round of TMDB calls.
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s, nil
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the bound address once Start has succeeded.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

// Start listens on the configured address and serves in the background until
// ctx is cancelled.
func (s *Server) Start(ctx context.Context) error {
	if s.bind == "" {
		return errors.New("server: bind address is empty")
	}
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithContext(s.logger, "api server error", "api_serve_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check the bind address and open file limits"),
			)
		}
	}()

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop drains in-flight requests and closes the listener.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
}
