// Package warehouse runs generated SQL against the data warehouse and
// materializes the full result set in memory.
package warehouse

import (
	"context"
	"fmt"

	"github.com/cortexai/datachat/internal/models"
)

// Executor runs one SQL statement to completion. Implementations return
// failures as *models.BoundaryError of kind warehouse.
type Executor interface {
	Execute(ctx context.Context, sql string) (*models.QueryResult, error)
}

// HealthChecker is implemented by executors that can probe connectivity.
type HealthChecker interface {
	TestConnection(ctx context.Context) error
}

const opExecute = "execute"

func wrap(err error) error {
	return models.NewBoundaryError(models.KindWarehouse, opExecute, err)
}

// uniqueColumns suffixes repeated column names with _1, _2, ... so that every
// column keeps its own key in a row.
func uniqueColumns(names []string) []string {
	seen := make(map[string]bool, len(names))
	out := make([]string, len(names))
	for i, n := range names {
		name := n
		for k := 1; seen[name]; k++ {
			name = fmt.Sprintf("%s_%d", n, k)
		}
		seen[name] = true
		out[i] = name
	}
	return out
}

// rowMap pairs positional values with columns. Values beyond the known
// columns are dropped.
func rowMap(columns []string, vals []interface{}) map[string]interface{} {
	m := make(map[string]interface{}, len(columns))
	for i, v := range vals {
		if i < len(columns) {
			m[columns[i]] = normalize(v)
		}
	}
	return m
}
