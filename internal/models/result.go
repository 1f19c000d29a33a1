package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// QueryResult is a materialized tabular result: rows in warehouse order, each
// row mapping column name to a scalar value.
type QueryResult struct {
	Columns []string                 `json:"columns"`
	Rows    []map[string]interface{} `json:"rows"`
	Stats   QueryStats               `json:"stats"`
}

// QueryStats carries optional execution metadata reported by the warehouse.
type QueryStats struct {
	JobID               string `json:"job_id,omitempty"`
	TotalBytesProcessed int64  `json:"total_bytes_processed,omitempty"`
	CacheHit            bool   `json:"cache_hit,omitempty"`
	ExecutionTimeMs     int64  `json:"execution_time_ms"`
}

// RowCount returns the number of rows.
func (r *QueryResult) RowCount() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Column returns the values of one column in row order.
func (r *QueryResult) Column(name string) []interface{} {
	if r == nil {
		return nil
	}
	out := make([]interface{}, 0, len(r.Rows))
	for _, row := range r.Rows {
		out = append(out, row[name])
	}
	return out
}

// Records serializes the result as a row-oriented JSON array of objects.
// Keys follow column order and every row is emitted, in order. NaN and
// infinite floats are written as null.
func (r *QueryResult) Records() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	if r != nil {
		for i, row := range r.Rows {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.WriteByte('{')
			for j, col := range r.Columns {
				if j > 0 {
					buf.WriteByte(',')
				}
				key, err := json.Marshal(col)
				if err != nil {
					return nil, err
				}
				val, err := json.Marshal(finite(row[col]))
				if err != nil {
					return nil, fmt.Errorf("encode %s of row %d: %w", col, i, err)
				}
				buf.Write(key)
				buf.WriteByte(':')
				buf.Write(val)
			}
			buf.WriteByte('}')
		}
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func finite(v interface{}) interface{} {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil
		}
	case float32:
		if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) {
			return nil
		}
	}
	return v
}

// Matrix returns rows as positional values in column order, for table views.
func (r *QueryResult) Matrix() [][]interface{} {
	if r == nil {
		return nil
	}
	out := make([][]interface{}, len(r.Rows))
	for i, row := range r.Rows {
		vals := make([]interface{}, len(r.Columns))
		for j, col := range r.Columns {
			vals[j] = row[col]
		}
		out[i] = vals
	}
	return out
}
