package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cortexai/datachat/internal/server"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func newServeCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the web UI and JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, a, err := flags.build(ctx)
			if err != nil {
				return err
			}

			srv, err := server.New(cfg, a)
			if err != nil {
				a.Close()
				return err
			}

			log.Info().
				Str("env", cfg.Environment).
				Int("port", cfg.Port).
				Msg("starting datachat")
			if err := srv.Run(ctx); err != nil {
				log.Error().Err(err).Msg("server stopped")
				return err
			}
			log.Info().Msg("server stopped")
			return nil
		},
	}
}
