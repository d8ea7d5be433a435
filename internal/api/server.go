// Package api exposes the estimator over HTTP for the `serve` command.
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/rshade/loadcalc/internal/engine"
	"github.com/rshade/loadcalc/internal/logging"
	"github.com/rshade/loadcalc/internal/report"
)

// maxBodyBytes bounds request bodies.
const maxBodyBytes = 1 << 20

// Options configures a Server.
type Options struct {
	// Locale is used when a report request names none.
	Locale string
	// Labels, when set, replaces locale negotiation for reports.
	Labels   *report.Labels
	Branding report.Branding
	Logger   zerolog.Logger
}

// Server serves the calculation endpoints.
type Server struct {
	engine *engine.Engine
	opts   Options
	log    zerolog.Logger
}

// NewServer returns a server backed by eng.
func NewServer(eng *engine.Engine, opts Options) *Server {
	if opts.Locale == "" {
		opts.Locale = report.DefaultLocale
	}
	return &Server{
		engine: eng,
		opts:   opts,
		log:    logging.ComponentLogger(opts.Logger, "api"),
	}
}

// Router returns the route table without middleware.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.HandleFunc("/v1/defaults", s.defaults).Methods(http.MethodGet)
	r.HandleFunc("/v1/tables", s.tables).Methods(http.MethodGet)
	r.HandleFunc("/v1/calculate", s.calculate).Methods(http.MethodPost)
	r.HandleFunc("/v1/what-if", s.whatIf).Methods(http.MethodPost)
	r.HandleFunc("/v1/report", s.handleReport).Methods(http.MethodPost)
	r.HandleFunc("/v1/quick", s.handleQuick).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Use(s.withRequestContext)
	return r
}

// Handler returns the router wrapped with panic recovery and access logging.
func (s *Server) Handler() http.Handler {
	return s.wrap(s.Router())
}

func (s *Server) wrap(h http.Handler) http.Handler {
	recovered := handlers.RecoveryHandler(
		handlers.RecoveryLogger(recoveryLogger{s.log}),
		handlers.PrintRecoveryStack(false),
	)(h)
	return handlers.CustomLoggingHandler(io.Discard, recovered, s.logRequest)
}

// withRequestContext puts the logger and a trace ID on each request context.
func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		traceID := r.Header.Get("X-Trace-Id")
		if traceID == "" {
			traceID = logging.NewTraceID()
		}
		ctx = logging.ContextWithTraceID(ctx, traceID)
		ctx = s.log.WithContext(ctx)
		w.Header().Set("X-Trace-Id", traceID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) logRequest(_ io.Writer, p handlers.LogFormatterParams) {
	ev := s.log.Info()
	if p.StatusCode >= http.StatusInternalServerError {
		ev = s.log.Error()
	}
	ev.Str("method", p.Request.Method).
		Str("path", p.URL.Path).
		Int("status", p.StatusCode).
		Int("size", p.Size).
		Str("remote", p.Request.RemoteAddr).
		Msg("request")
}

// recoveryLogger adapts zerolog to handlers.RecoveryHandlerLogger.
type recoveryLogger struct{ log zerolog.Logger }

func (l recoveryLogger) Println(v ...any) {
	l.log.Error().Str("panic", fmt.Sprint(v...)).Msg("handler panicked")
}

// Timeouts bounds a running server.
type Timeouts struct {
	Read     time.Duration
	Write    time.Duration
	Shutdown time.Duration
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully. ready, when non-nil, receives the bound address once the
// listener is open.
func (s *Server) ListenAndServe(ctx context.Context, addr string, t Timeouts, ready func(net.Addr)) error {
	ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       t.Read,
		ReadHeaderTimeout: t.Read,
		WriteTimeout:      t.Write,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
	if ready != nil {
		ready(ln.Addr())
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case err = <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), t.Shutdown)
	defer cancel()
	s.log.Info().Msg("shutting down")
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
