package warehouse

import (
	"context"
	"errors"
	"time"

	"github.com/cortexai/datachat/internal/models"
)

// RunQueryFunc matches backend.Client.RunQuery.
type RunQueryFunc func(ctx context.Context, database, sql string) (*models.QueryResult, error)

// Backend executes through the backend's run-query endpoint instead of
// talking to the warehouse directly.
type Backend struct {
	run      RunQueryFunc
	database string
}

func NewBackend(run RunQueryFunc, database string) *Backend {
	return &Backend{run: run, database: database}
}

func (b *Backend) Execute(ctx context.Context, sql string) (*models.QueryResult, error) {
	start := time.Now()
	res, err := b.run(ctx, b.database, sql)
	if err != nil {
		var be *models.BoundaryError
		if errors.As(err, &be) && be.Kind == models.KindIdentity {
			return nil, err
		}
		return nil, wrap(err)
	}
	res.Stats.ExecutionTimeMs = time.Since(start).Milliseconds()
	return res, nil
}
