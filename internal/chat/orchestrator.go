// Package chat drives one conversational turn: generate SQL, execute it,
// generate charts, then answer with an acknowledgment or an apology.
package chat

import (
	"context"
	"errors"
	"time"

	"github.com/cortexai/datachat/internal/audit"
	"github.com/cortexai/datachat/internal/conversation"
	"github.com/cortexai/datachat/internal/models"
	"github.com/cortexai/datachat/internal/warehouse"
	"github.com/rs/zerolog/log"
)

// Stage is a state of the turn state machine.
type Stage string

const (
	StageIdle          Stage = "idle"
	StageAwaitingSQL   Stage = "awaiting_sql"
	StageExecuting     Stage = "executing"
	StageFailed        Stage = "failed"
	StageAwaitingChart Stage = "awaiting_chart"
	StageRendered      Stage = "rendered"
)

// SQLGenerator turns a question into SQL. An empty string with a nil error
// means the backend had no answer.
type SQLGenerator interface {
	GenerateSQL(ctx context.Context, question, database string) (string, error)
}

// ChartGenerator produces the two chart fragments for a result.
type ChartGenerator interface {
	GenerateChart(ctx context.Context, question, sql string, records []byte) (*models.ChartSpec, error)
}

// Reply is the outcome of one turn. On failure only Message, Stages and
// FailureKind are set.
type Reply struct {
	Message     string
	Succeeded   bool
	SQL         string
	Result      *models.QueryResult
	Charts      *models.ChartSpec
	Stages      []Stage
	FailureKind models.FailureKind
	Err         error
	Duration    time.Duration
}

// StageNames returns Stages as plain strings.
func (r *Reply) StageNames() []string {
	out := make([]string, len(r.Stages))
	for i, s := range r.Stages {
		out[i] = string(s)
	}
	return out
}

func (r *Reply) enter(s Stage) { r.Stages = append(r.Stages, s) }

// Orchestrator runs turns against a backend and a warehouse executor.
type Orchestrator struct {
	sql      SQLGenerator
	charts   ChartGenerator
	exec     warehouse.Executor
	database string
	phrases  Phrasebook
	pick     Picker
	audit    *audit.Logger
	cost     *audit.CostTracker
}

type Option func(*Orchestrator)

// WithPicker replaces the random phrase picker.
func WithPicker(p Picker) Option {
	return func(o *Orchestrator) { o.pick = p }
}

// WithAudit enables turn audit and query cost events.
func WithAudit(l *audit.Logger, ct *audit.CostTracker) Option {
	return func(o *Orchestrator) {
		o.audit = l
		o.cost = ct
	}
}

func New(sql SQLGenerator, charts ChartGenerator, exec warehouse.Executor, database string, phrases Phrasebook, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		sql:      sql,
		charts:   charts,
		exec:     exec,
		database: database,
		phrases:  phrases,
		pick:     randomPick,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Database is the dataset every question targets.
func (o *Orchestrator) Database() string { return o.database }

// Handle runs one turn in session s. It never fails: any error along the way
// ends the turn with an apology, and no partial result is returned.
func (o *Orchestrator) Handle(ctx context.Context, s *conversation.Session, question string) *Reply {
	end := s.BeginTurn()
	defer end()

	start := time.Now()
	r := &Reply{Stages: []Stage{StageIdle}}
	s.Append(models.RoleHuman, question)

	sql, res, charts, err := o.run(ctx, r, question)

	if err != nil {
		r.enter(StageFailed)
		r.FailureKind = models.KindOf(err)
		r.Err = err
		r.Message = o.phrases.apology(o.pick)
	} else {
		r.enter(StageRendered)
		r.Succeeded = true
		r.SQL = sql
		r.Result = res
		r.Charts = charts
		r.Message = o.phrases.acknowledgment(o.pick)
	}
	s.Append(models.RoleAssistant, r.Message)
	r.Duration = time.Since(start)

	o.audit.LogTurn(audit.TurnEvent{
		SessionID:   s.ID,
		Question:    question,
		SQL:         sql,
		RowCount:    res.RowCount(),
		Succeeded:   r.Succeeded,
		FailureKind: r.FailureKind,
		DurationMs:  r.Duration.Milliseconds(),
		Err:         err,
	})

	evt := log.Info()
	if err != nil {
		evt = log.Warn().Err(err).Str("failure_kind", string(r.FailureKind))
	}
	evt.Str("session_id", s.ID).
		Strs("stages", r.StageNames()).
		Int("rows", res.RowCount()).
		Dur("duration", r.Duration).
		Msg("turn finished")

	return r
}

func (o *Orchestrator) run(ctx context.Context, r *Reply, question string) (string, *models.QueryResult, *models.ChartSpec, error) {
	r.enter(StageAwaitingSQL)
	sql, err := o.sql.GenerateSQL(ctx, question, o.database)
	if err != nil {
		return "", nil, nil, classify(models.KindBackend, "generate_sql", err)
	}
	if sql == "" {
		return "", nil, nil, models.NewBoundaryError(models.KindNoSQL, "generate_sql", errors.New("empty GeneratedSQL"))
	}

	r.enter(StageExecuting)
	res, err := o.exec.Execute(ctx, sql)
	if err != nil {
		return sql, nil, nil, classify(models.KindWarehouse, "execute", err)
	}
	if res == nil {
		res = &models.QueryResult{}
	}
	o.cost.LogQueryCost(sql, res.Stats)

	r.enter(StageAwaitingChart)
	records, err := res.Records()
	if err != nil {
		return sql, res, nil, classify(models.KindWarehouse, "serialize", err)
	}
	charts, err := o.charts.GenerateChart(ctx, question, sql, records)
	if err != nil {
		return sql, res, nil, classify(models.KindBackend, "generate_viz", err)
	}
	if charts == nil {
		return sql, res, nil, models.NewBoundaryError(models.KindBackend, "generate_viz", errors.New("no chart returned"))
	}
	return sql, res, charts, nil
}

// classify keeps boundary errors as they are and wraps anything else under
// kind.
func classify(kind models.FailureKind, op string, err error) error {
	var be *models.BoundaryError
	if errors.As(err, &be) {
		return err
	}
	return models.NewBoundaryError(kind, op, err)
}
