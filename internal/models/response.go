package models

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Checks  map[string]string `json:"checks,omitempty"`
}

// ChatResponse is returned by POST /api/v1/chat
type ChatResponse struct {
	Status         string          `json:"status"`
	Message        string          `json:"message"`
	Succeeded      bool            `json:"succeeded"`
	SQL            string          `json:"sql,omitempty"`
	Columns        []string        `json:"columns,omitempty"`
	Rows           [][]interface{} `json:"rows,omitempty"`
	Charts         *ChartSpec      `json:"charts,omitempty"`
	ChartDocuments []string        `json:"chart_documents,omitempty"`
	Stages         []string        `json:"stages"`
	FailureKind    FailureKind     `json:"failure_kind,omitempty"`
	Turns          int             `json:"turns"`
}

// HistoryResponse is returned by GET /api/v1/history
type HistoryResponse struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
	Turns     []Turn `json:"turns"`
}

// CatalogResponse is returned by the databases and known-questions endpoints
type CatalogResponse struct {
	Status    string          `json:"status"`
	Columns   []string        `json:"columns"`
	Rows      [][]interface{} `json:"rows"`
	Questions []string        `json:"questions,omitempty"`
	Count     int             `json:"count"`
}

// AnswerResponse is returned by POST /api/v1/answer
type AnswerResponse struct {
	Status string `json:"status"`
	Answer string `json:"answer"`
}
