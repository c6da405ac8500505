// Package server exposes the gateway over HTTP: a JSON endpoint, a
// server-rendered form page and a health check.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/valpere/lingo/internal/prompt"
)

const (
	routeHealth = "/health"
	routeLingo  = "/api/lingo"
	routeIndex  = "/{$}"

	shutdownTimeout = 10 * time.Second
)

//go:embed templates/*.html
var templateFS embed.FS

// Processor turns a request into the completion text.
type Processor interface {
	Process(ctx context.Context, req prompt.Request) (string, error)
}

type Server struct {
	addr string
	proc Processor
	log  *zap.Logger
	page *template.Template
}

func New(addr string, proc Processor, log *zap.Logger) (*Server, error) {
	if log == nil {
		log = zap.NewNop()
	}
	page, err := template.ParseFS(templateFS, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Server{addr: addr, proc: proc, log: log, page: page}, nil
}

// Handler returns the routed handler wrapped in logging and panic recovery.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(routeHealth, s.handleHealth)
	mux.HandleFunc(routeLingo, s.handleLingo)
	mux.HandleFunc(routeIndex, s.handleIndex)

	return s.logRequests(s.recoverPanics(mux))
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
