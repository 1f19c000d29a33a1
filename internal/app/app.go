// Package app assembles the chat pipeline from configuration: backend client,
// identity provider, warehouse executor, conversation store and orchestrator.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/cortexai/datachat/internal/audit"
	"github.com/cortexai/datachat/internal/backend"
	"github.com/cortexai/datachat/internal/chat"
	"github.com/cortexai/datachat/internal/config"
	"github.com/cortexai/datachat/internal/conversation"
	"github.com/cortexai/datachat/internal/identity"
	"github.com/cortexai/datachat/internal/warehouse"
	"github.com/rs/zerolog/log"
)

// App holds the long-lived components shared by the server and the CLI.
type App struct {
	Config        *config.Config
	Backend       *backend.Client
	Executor      warehouse.Executor
	Orchestrator  *chat.Orchestrator
	Conversations *conversation.Store

	closers []func() error
}

// Build wires every component described by cfg. Call Close when done.
func Build(ctx context.Context, cfg *config.Config) (*App, error) {
	a := &App{Config: cfg}

	opts := []backend.Option{backend.WithEndpoints(cfg.Endpoints)}
	if p := identityProvider(cfg); p != nil {
		opts = append(opts, backend.WithIdentity(p))
	}
	a.Backend = backend.New(cfg.BackendURL, opts...)

	exec, err := a.executor(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Executor = exec

	a.Conversations = conversation.NewStore(cfg.SessionIdle())
	a.Orchestrator = chat.New(
		a.Backend,
		a.Backend,
		a.Executor,
		cfg.Database(),
		chat.PhrasesFor(cfg.Locale),
		chat.WithAudit(audit.NewLogger(cfg.AuditLogging), audit.NewCostTracker()),
	)

	log.Info().
		Str("backend_url", cfg.BackendURL).
		Str("database", cfg.Database()).
		Str("warehouse_driver", cfg.WarehouseDriver).
		Str("locale", cfg.Locale).
		Bool("auth_enabled", cfg.Auth.Enabled).
		Bool("token_cache", cfg.Auth.Enabled && cfg.Auth.TokenCache).
		Bool("audit_logging", cfg.AuditLogging).
		Msg("service configuration")

	return a, nil
}

func identityProvider(cfg *config.Config) identity.Provider {
	if !cfg.Auth.Enabled {
		return nil
	}
	g := identity.NewGoogle(cfg.Auth.Audience, cfg.GoogleApplicationCredentials)
	if !cfg.Auth.TokenCache {
		return g
	}
	return identity.NewCache(g, cfg.Auth.Audience)
}

func (a *App) executor(ctx context.Context) (warehouse.Executor, error) {
	cfg := a.Config
	switch cfg.WarehouseDriver {
	case config.DriverBigQuery:
		bq, err := warehouse.NewBigQuery(ctx, cfg.ProjectID, cfg.GoogleApplicationCredentials, cfg.RegionID, cfg.QueryTimeout())
		if err != nil {
			return nil, fmt.Errorf("bigquery warehouse: %w", err)
		}
		a.closers = append(a.closers, bq.Close)
		return bq, nil
	case config.DriverPostgres:
		pg, err := warehouse.NewPostgres(ctx, cfg.PostgresDSN, cfg.QueryTimeout())
		if err != nil {
			return nil, fmt.Errorf("postgres warehouse: %w", err)
		}
		a.closers = append(a.closers, pg.Close)
		return pg, nil
	case config.DriverBackend:
		return warehouse.NewBackend(a.Backend.RunQuery, cfg.Database()), nil
	}
	return nil, fmt.Errorf("unknown warehouse driver %q", cfg.WarehouseDriver)
}

// WarehouseHealth returns the executor's connectivity probe, or nil when it
// has none.
func (a *App) WarehouseHealth() warehouse.HealthChecker {
	if hc, ok := a.Executor.(warehouse.HealthChecker); ok {
		return hc
	}
	return nil
}

// Close releases warehouse clients.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
