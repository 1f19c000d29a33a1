package audit_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/cortexai/datachat/internal/audit"
	"github.com/cortexai/datachat/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = prev })
	return &buf
}

func TestLogTurnHashesText(t *testing.T) {
	buf := captureLog(t)

	audit.NewLogger(true).LogTurn(audit.TurnEvent{
		SessionID:   "s1",
		Question:    "quantos clientes temos?",
		SQL:         "SELECT COUNT(*) FROM clients",
		RowCount:    1,
		Succeeded:   false,
		FailureKind: models.KindWarehouse,
		Err:         errors.New("boom"),
	})

	out := buf.String()
	if bytes.Contains(buf.Bytes(), []byte("clientes")) || bytes.Contains(buf.Bytes(), []byte("SELECT")) {
		t.Fatalf("audit event leaked raw text: %s", out)
	}

	var evt map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &evt); err != nil {
		t.Fatalf("decode event: %v", err)
	}
	if evt["event"] != "turn_audit" {
		t.Errorf("event = %v, want turn_audit", evt["event"])
	}
	if evt["failure_kind"] != "warehouse" {
		t.Errorf("failure_kind = %v, want warehouse", evt["failure_kind"])
	}
	if len(evt["question_hash"].(string)) != 16 {
		t.Errorf("question_hash should be 16 hex chars, got %v", evt["question_hash"])
	}
}

func TestLogTurnDisabled(t *testing.T) {
	buf := captureLog(t)
	audit.NewLogger(false).LogTurn(audit.TurnEvent{Question: "q"})
	if buf.Len() != 0 {
		t.Errorf("disabled logger wrote %q", buf.String())
	}
}

func TestCostTracker(t *testing.T) {
	buf := captureLog(t)
	ct := audit.NewCostTracker()

	ct.LogQueryCost("SELECT 1", models.QueryStats{})
	if buf.Len() != 0 {
		t.Fatalf("zero-byte query should not be logged, got %q", buf.String())
	}

	ct.LogQueryCost("SELECT 1", models.QueryStats{TotalBytesProcessed: 2_000_000_000_000, JobID: "job-1"})
	if !bytes.Contains(buf.Bytes(), []byte(`"event":"query_cost"`)) {
		t.Errorf("expected query_cost event, got %q", buf.String())
	}
	if got := audit.EstimateUSD(2_000_000_000_000); got != 10.0 {
		t.Errorf("EstimateUSD(2TB) = %v, want 10", got)
	}
}
