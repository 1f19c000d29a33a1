package audit

import (
	"crypto/sha256"
	"fmt"

	"github.com/cortexai/datachat/internal/models"
	"github.com/rs/zerolog/log"
)

// Logger writes turn-level audit events with hashed question and SQL text.
type Logger struct {
	enabled bool
}

func NewLogger(enabled bool) *Logger {
	return &Logger{enabled: enabled}
}

// TurnEvent describes one finished turn.
type TurnEvent struct {
	SessionID   string
	Question    string
	SQL         string
	RowCount    int
	Succeeded   bool
	FailureKind models.FailureKind
	DurationMs  int64
	Err         error
}

// LogTurn records a turn_audit event.
func (l *Logger) LogTurn(e TurnEvent) {
	if l == nil || !l.enabled {
		return
	}
	sqlHash := ""
	if e.SQL != "" {
		sqlHash = hashStr(e.SQL)[:16]
	}

	evt := log.Info().
		Str("event", "turn_audit").
		Str("session_id", e.SessionID).
		Str("question_hash", hashStr(e.Question)[:16]).
		Str("sql_hash", sqlHash).
		Int("row_count", e.RowCount).
		Bool("success", e.Succeeded).
		Int64("duration_ms", e.DurationMs)

	if e.FailureKind != models.KindNone {
		evt = evt.Str("failure_kind", string(e.FailureKind))
	}
	if e.Err != nil {
		evt = evt.Err(e.Err)
	}
	evt.Msg("audit")
}

func hashStr(s string) string {
	h := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", h)
}
