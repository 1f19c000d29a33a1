package audit

import (
	"github.com/cortexai/datachat/internal/models"
	"github.com/rs/zerolog/log"
)

const bytesPerGB = 1_000_000_000.0
const bigQueryCostPerTB = 5.0 // USD

// CostTracker reports the on-demand cost of warehouse executions. It only
// logs; no limit is enforced.
type CostTracker struct{}

func NewCostTracker() *CostTracker {
	return &CostTracker{}
}

// EstimateUSD converts processed bytes to an on-demand price.
func EstimateUSD(totalBytesProcessed int64) float64 {
	processedGB := float64(totalBytesProcessed) / bytesPerGB
	return processedGB / 1000.0 * bigQueryCostPerTB // GB → TB → cost
}

// LogQueryCost logs a query_cost event when the warehouse reported bytes.
func (ct *CostTracker) LogQueryCost(sql string, stats models.QueryStats) {
	if ct == nil || stats.TotalBytesProcessed == 0 {
		return
	}
	processedGB := float64(stats.TotalBytesProcessed) / bytesPerGB
	costUSD := EstimateUSD(stats.TotalBytesProcessed)

	log.Info().
		Str("event", "query_cost").
		Str("sql_hash", hashStr(sql)[:16]).
		Str("job_id", stats.JobID).
		Bool("cache_hit", stats.CacheHit).
		Float64("cost_gb", processedGB).
		Float64("cost_usd", costUSD).
		Int64("duration_ms", stats.ExecutionTimeMs).
		Msgf("Query cost: %.4fGB ($%.4f) | Duration: %dms", processedGB, costUSD, stats.ExecutionTimeMs)
}
