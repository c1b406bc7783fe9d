package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/dirserve/internal/config"
	"example.com/dirserve/internal/logger"
	"example.com/dirserve/internal/util"
)

// Server manages the HTTP server lifecycle: listener setup, the single
// catch-all route, and signal-driven graceful shutdown.
type Server struct {
	cfg     *config.ServerConfig
	log     *logger.Logger
	handler http.Handler

	httpSrv  *http.Server
	listener net.Listener

	shutdownSignals chan os.Signal
}

// New creates a Server serving the given handler on the configured
// address and port. The config must already be validated.
func New(cfg *config.ServerConfig, lg *logger.Logger, handler http.Handler) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("server config cannot be nil")
	}
	if lg == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if handler == nil {
		return nil, fmt.Errorf("handler cannot be nil")
	}

	s := &Server{
		cfg:             cfg,
		log:             lg,
		handler:         handler,
		shutdownSignals: make(chan os.Signal, 1),
	}
	s.httpSrv = &http.Server{
		Handler: s.middleware(handler),
	}
	return s, nil
}

// Start binds the listener and serves until SIGINT or SIGTERM, then
// drains in-flight requests within the configured shutdown timeout. It
// blocks; a nil return means a completed graceful shutdown.
func (s *Server) Start() error {
	maxConns := 0
	if s.cfg.MaxConnections != nil {
		maxConns = *s.cfg.MaxConnections
	}
	ln, err := util.Listen(s.cfg.ListenAddr(), maxConns)
	if err != nil {
		if util.IsAddrInUse(err) {
			return fmt.Errorf("address %s is already in use: %w", s.cfg.ListenAddr(), err)
		}
		return err
	}
	s.listener = ln
	s.log.Info("server listening", logger.LogFields{
		"address": ln.Addr().String(),
		"root":    s.cfg.Root,
	})

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- s.httpSrv.Serve(ln)
	}()

	signal.Notify(s.shutdownSignals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(s.shutdownSignals)

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)
	case sig := <-s.shutdownSignals:
		s.log.Info("shutdown signal received", logger.LogFields{"signal": sig.String()})
		return s.shutdown()
	}
}

// Shutdown triggers the same graceful stop as a termination signal.
// Intended for tests and embedders.
func (s *Server) Shutdown() {
	select {
	case s.shutdownSignals <- syscall.SIGTERM:
	default:
	}
}

func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout())
	defer cancel()
	if err := s.httpSrv.Shutdown(ctx); err != nil {
		s.log.Warn("graceful shutdown did not complete, closing", logger.LogFields{"error": err.Error()})
		return s.httpSrv.Close()
	}
	s.log.Info("server shut down gracefully", nil)
	return nil
}

// middleware wraps the handler with panic recovery and request logging.
// A panicking request is answered with 500 and never takes the listener
// down; logging stays off the correctness path.
func (s *Server) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			if p := recover(); p != nil {
				s.log.Error("panic while handling request", logger.LogFields{
					"method": r.Method,
					"path":   r.URL.Path,
					"panic":  fmt.Sprintf("%v", p),
				})
				if !rec.wroteHeader {
					WriteError(w, r, http.StatusInternalServerError, "")
				}
				return
			}
			s.log.Info("request", logger.LogFields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"bytes":       rec.bytes,
				"duration_ms": time.Since(start).Milliseconds(),
				"remote":      r.RemoteAddr,
			})
		}()

		next.ServeHTTP(rec, r)
	})
}

// statusRecorder captures the response status and size for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status      int
	bytes       int64
	wroteHeader bool
}

func (r *statusRecorder) WriteHeader(status int) {
	if !r.wroteHeader {
		r.status = status
		r.wroteHeader = true
	}
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Write(p []byte) (int, error) {
	if !r.wroteHeader {
		r.wroteHeader = true
	}
	n, err := r.ResponseWriter.Write(p)
	r.bytes += int64(n)
	return n, err
}
