// Package server exposes the cut service over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/piwi3910/FurniCut/internal/logging"
	"github.com/piwi3910/FurniCut/internal/metrics"
	"github.com/piwi3910/FurniCut/internal/model"
	"github.com/piwi3910/FurniCut/internal/service"
)

const shutdownTimeout = 10 * time.Second

// Server routes HTTP requests to the cut service.
type Server struct {
	router *mux.Router
	logger *slog.Logger
}

// New builds the router. A nil metrics leaves /metrics unrouted.
func New(svc *service.CutService, m *metrics.Metrics, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.Discard()
	}
	s := &Server{
		router: mux.NewRouter(),
		logger: logging.Component(logger, "HTTP"),
	}

	s.router.Use(requestIDMiddleware(logger), accessLogMiddleware, recoveryMiddleware)

	furniture := s.router.PathPrefix("/furniture").Subrouter()
	furniture.HandleFunc("/cut", makeCutHandler(svc)).Methods(http.MethodPost)
	furniture.HandleFunc("/sheets", makeListHandler(svc)).Methods(http.MethodGet)
	furniture.HandleFunc("/sheets/{id:[0-9]+}", makeGetHandler(svc)).Methods(http.MethodGet)
	furniture.HandleFunc("/sheets/{id:[0-9]+}", makeDeleteHandler(svc)).Methods(http.MethodDelete)
	furniture.HandleFunc("/sheets/{id:[0-9]+}/export/{format}", makeExportHandler(svc)).Methods(http.MethodGet)

	s.router.HandleFunc("/healthz", makeHealthHandler()).Methods(http.MethodGet)
	if m != nil {
		s.router.Path("/metrics").Handler(m.Handler())
	}

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "Resource not found")
	})

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe listens on cfg.ListenAddr and serves until ctx ends.
func (s *Server) ListenAndServe(ctx context.Context, cfg model.AppConfig) error {
	ln, err := net.Listen("tcp", cfg.ListenAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cfg.ListenAddr, err)
	}
	return s.Serve(ctx, ln, cfg)
}

// Serve accepts connections on ln until ctx ends, then drains in-flight
// requests for up to shutdownTimeout.
func (s *Server) Serve(ctx context.Context, ln net.Listener, cfg model.AppConfig) error {
	srv := &http.Server{
		Handler:      s,
		ReadTimeout:  cfg.ReadTimeout(),
		WriteTimeout: cfg.WriteTimeout(),
		ErrorLog:     slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
