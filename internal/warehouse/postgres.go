package warehouse

import (
	"context"
	"fmt"
	"time"

	"github.com/cortexai/datachat/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Postgres executes against a Postgres-compatible warehouse through a pgx pool.
type Postgres struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

func NewPostgres(ctx context.Context, dsn string, timeout time.Duration) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	return &Postgres{pool: pool, timeout: timeout}, nil
}

func (p *Postgres) Close() error {
	p.pool.Close()
	return nil
}

func (p *Postgres) TestConnection(ctx context.Context) error {
	return p.pool.Ping(ctx)
}

func (p *Postgres) Execute(ctx context.Context, sql string) (*models.QueryResult, error) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := p.pool.Query(ctx, sql)
	if err != nil {
		return nil, wrap(fmt.Errorf("query: %w", err))
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	names := make([]string, 0, len(fields))
	for _, fd := range fields {
		names = append(names, fd.Name)
	}
	res := &models.QueryResult{Columns: uniqueColumns(names)}
	for rows.Next() {
		vals, err := rows.Values()
		if err != nil {
			return nil, wrap(fmt.Errorf("read row: %w", err))
		}
		res.Rows = append(res.Rows, rowMap(res.Columns, vals))
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(err)
	}

	res.Stats.ExecutionTimeMs = time.Since(start).Milliseconds()
	return res, nil
}
