package models

import "encoding/json"

// Backend wire payloads. Field names follow the backend's JSON contract.

type KnownSQLRequest struct {
	UserDatabase string `json:"user_database"`
}

type GenerateSQLRequest struct {
	UserQuestion string `json:"user_question"`
	UserDatabase string `json:"user_database"`
}

type RunQueryRequest struct {
	UserDatabase string `json:"user_database"`
	GeneratedSQL string `json:"generated_sql"`
}

type EmbedSQLRequest struct {
	UserQuestion string `json:"user_question"`
	GeneratedSQL string `json:"generated_sql"`
	UserDatabase string `json:"user_database"`
}

type NaturalResponseRequest struct {
	UserQuestion string `json:"user_question"`
	UserDatabase string `json:"user_database"`
}

// GenerateVizRequest carries the results as a JSON string holding the
// row-oriented records, which is what the backend parses.
type GenerateVizRequest struct {
	UserQuestion string `json:"user_question"`
	SQLGenerated string `json:"sql_generated"`
	SQLResults   string `json:"sql_results"`
}

type KnownDBResponse struct {
	KnownDB json.RawMessage `json:"KnownDB"`
}

type KnownSQLResponse struct {
	KnownSQL json.RawMessage `json:"KnownSQL"`
}

type GenerateSQLResponse struct {
	GeneratedSQL string `json:"GeneratedSQL"`
}

// RunQueryResponse accepts the distinct QueryResult field and falls back to
// the legacy KnownDB name the backend reuses for run-query results.
type RunQueryResponse struct {
	QueryResult json.RawMessage `json:"QueryResult"`
	KnownDB     json.RawMessage `json:"KnownDB"`
}

type NaturalResponseResponse struct {
	NaturalResponse string `json:"NaturalResponse"`
}

type GenerateVizResponse struct {
	GeneratedChartjs *ChartSpec `json:"GeneratedChartjs"`
}

// Inbound API requests.

// ChatRequest for POST /api/v1/chat
type ChatRequest struct {
	Question string `json:"question"`
}

// FeedbackRequest for POST /api/v1/feedback
type FeedbackRequest struct {
	Question string `json:"question"`
	SQL      string `json:"sql"`
}

// AnswerRequest for POST /api/v1/answer
type AnswerRequest struct {
	Question string `json:"question"`
}
