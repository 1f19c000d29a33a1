package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/cortexai/datachat/internal/app"
	"github.com/cortexai/datachat/internal/config"
	"github.com/cortexai/datachat/internal/handler"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "datachat",
		Short: "Ask questions about your data in plain language",
		Long: `datachat forwards natural-language questions to the NL-to-SQL backend,
runs the generated SQL on the warehouse and shows the result as a
table, two charts and the SQL itself.

Run 'datachat' or 'datachat serve' to start the web UI.`,
		Version:       handler.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (JSON, YAML or TOML); defaults to $"+config.ConfigEnv)
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "override log_level")

	serve := newServeCmd(flags)
	root.RunE = serve.RunE
	root.AddCommand(serve, newAskCmd(flags), newDatabasesCmd(flags), newQuestionsCmd(flags))
	return root
}

// loadConfig reads and validates configuration and sets up logging.
func (f *globalFlags) loadConfig() (*config.Config, error) {
	path := f.configPath
	if path == "" {
		path = os.Getenv(config.ConfigEnv)
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	setupLogging(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// build loads configuration and wires the pipeline.
func (f *globalFlags) build(ctx context.Context) (*config.Config, *app.App, error) {
	cfg, err := f.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	a, err := app.Build(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, a, nil
}

func setupLogging(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Environment == config.DefaultEnvironment {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
	}
}
