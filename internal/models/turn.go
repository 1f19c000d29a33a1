package models

import "time"

// Role identifies who authored a turn.
type Role string

const (
	RoleHuman     Role = "human"
	RoleAssistant Role = "assistant"
)

// Turn is one message in a conversation. Turns are never mutated once appended.
type Turn struct {
	Role      Role      `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// ChartSpec holds the two chart fragments produced by the backend. Both are
// opaque script bodies injected verbatim into a chart document.
type ChartSpec struct {
	ChartDiv  string `json:"chart_div"`
	ChartDiv1 string `json:"chart_div_1"`
}
