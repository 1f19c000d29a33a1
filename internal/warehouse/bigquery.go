package warehouse

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/cortexai/datachat/internal/models"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

// BigQuery wraps the BigQuery SDK client
type BigQuery struct {
	client    *bigquery.Client
	projectID string
	location  string
	timeout   time.Duration
}

// NewBigQuery creates a BigQuery client for projectID. credentialsFile may be
// empty to use Application Default Credentials.
func NewBigQuery(ctx context.Context, projectID, credentialsFile, location string, timeout time.Duration) (*BigQuery, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("bigquery.NewClient: %w", err)
	}
	client.Location = location

	return &BigQuery{
		client:    client,
		projectID: projectID,
		location:  location,
		timeout:   timeout,
	}, nil
}

// Close releases the BigQuery client
func (b *BigQuery) Close() error {
	return b.client.Close()
}

// TestConnection verifies BigQuery connectivity
func (b *BigQuery) TestConnection(ctx context.Context) error {
	q := b.client.Query("SELECT 1")
	job, err := q.Run(ctx)
	if err != nil {
		return fmt.Errorf("query run: %w", err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return fmt.Errorf("job wait: %w", err)
	}
	return status.Err()
}

// Execute runs sql, waits for the job and reads every row.
func (b *BigQuery) Execute(ctx context.Context, sql string) (*models.QueryResult, error) {
	q := b.client.Query(sql)
	q.DefaultProjectID = b.projectID

	if b.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, b.timeout)
		defer cancel()
	}

	start := time.Now()
	job, err := q.Run(ctx)
	if err != nil {
		return nil, wrap(fmt.Errorf("query run: %w", err))
	}

	status, err := job.Wait(ctx)
	if err != nil {
		return nil, wrap(fmt.Errorf("job wait: %w", err))
	}
	if err := status.Err(); err != nil {
		return nil, wrap(fmt.Errorf("query failed: %w", err))
	}

	it, err := job.Read(ctx)
	if err != nil {
		return nil, wrap(fmt.Errorf("job read: %w", err))
	}

	res := &models.QueryResult{}
	for {
		var row []bigquery.Value
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, wrap(fmt.Errorf("read row: %w", err))
		}

		if res.Columns == nil {
			res.Columns = schemaColumns(it.Schema)
		}
		vals := make([]interface{}, len(row))
		for i, v := range row {
			vals[i] = v
		}
		res.Rows = append(res.Rows, rowMap(res.Columns, vals))
	}
	if res.Columns == nil {
		res.Columns = schemaColumns(it.Schema)
	}

	res.Stats = models.QueryStats{
		JobID:           job.ID(),
		ExecutionTimeMs: time.Since(start).Milliseconds(),
	}
	if stats := job.LastStatus().Statistics; stats != nil {
		res.Stats.TotalBytesProcessed = stats.TotalBytesProcessed
		if qStats, ok := stats.Details.(*bigquery.QueryStatistics); ok {
			res.Stats.CacheHit = qStats.CacheHit
		}
	}

	log.Debug().
		Str("job_id", res.Stats.JobID).
		Int("rows", len(res.Rows)).
		Int64("bytes_processed", res.Stats.TotalBytesProcessed).
		Msg("bigquery query done")

	return res, nil
}

// ListDatasets returns the dataset IDs of the project, used when the backend
// catalog is unavailable.
func (b *BigQuery) ListDatasets(ctx context.Context) ([]string, error) {
	var ids []string
	it := b.client.Datasets(ctx)
	for {
		ds, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list datasets: %w", err)
		}
		ids = append(ids, ds.DatasetID)
	}
	return ids, nil
}

func schemaColumns(schema bigquery.Schema) []string {
	cols := make([]string, 0, len(schema))
	for _, f := range schema {
		cols = append(cols, f.Name)
	}
	return uniqueColumns(cols)
}
