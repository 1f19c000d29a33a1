package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/cortexai/datachat/internal/app"
	"github.com/cortexai/datachat/internal/config"
	"github.com/rs/zerolog/log"
)

type Server struct {
	cfg  *config.Config
	app  *app.App
	http *http.Server
}

func New(cfg *config.Config, a *app.App) (*Server, error) {
	s := &Server{cfg: cfg, app: a}

	router, err := s.setupRoutes()
	if err != nil {
		return nil, fmt.Errorf("setup routes: %w", err)
	}

	s.http = &http.Server{
		Addr:        fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// A turn chains three backend calls and a warehouse query.
		WriteTimeout: cfg.QueryTimeout() + 60*time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Handler exposes the router, for tests.
func (s *Server) Handler() http.Handler { return s.http.Handler }

func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.http.Addr).Msg("listening")
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("graceful shutdown initiated")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := s.http.Shutdown(shutdownCtx)

		if closeErr := s.app.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("error closing warehouse client")
		} else {
			log.Info().Msg("warehouse client closed")
		}

		return err
	case err := <-errCh:
		return err
	}
}
