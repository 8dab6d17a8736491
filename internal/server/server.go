// Package server exposes the paragraph pipeline over HTTP: document upload
// and enhancement on one endpoint, index-addressed patching on another.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/nuritravel/go-docx-enhancer/internal/config"
	"github.com/nuritravel/go-docx-enhancer/internal/webhook"
)

// Server owns the HTTP listener and its wiring.
type Server struct {
	cfg  *config.Config
	log  *zap.Logger
	http *http.Server
}

func New(cfg *config.Config, log *zap.Logger) *Server {
	client := webhook.NewClient(cfg.Webhook.URL, cfg.Webhook.Timeout, log)
	handler := NewHandler(cfg, log, client)
	router := NewRouter(handler, log, cfg.Server.InternalSecret)

	return &Server{
		cfg: cfg,
		log: log,
		http: &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until the context is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", s.cfg.Server.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Info("shutting down")
	return s.http.Shutdown(shutdownCtx)
}
