package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/cortexai/datachat/internal/models"
)

// Catalog lists what the backend knows about.
type Catalog interface {
	ListDatabases(ctx context.Context) (*models.QueryResult, error)
	KnownSQL(ctx context.Context, database string) (*models.QueryResult, error)
}

// CatalogHandler handles the database and known-question listings
type CatalogHandler struct {
	catalog  Catalog
	database string
}

func NewCatalogHandler(catalog Catalog, database string) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, database: database}
}

// Databases handles GET /api/v1/databases
func (h *CatalogHandler) Databases(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalog.ListDatabases(r.Context())
	if err != nil {
		writeUpstreamError(w, "failed to list databases", err)
		return
	}
	models.WriteJSON(w, http.StatusOK, catalogResponse(res, nil))
}

// KnownQuestions handles GET /api/v1/known-questions
func (h *CatalogHandler) KnownQuestions(w http.ResponseWriter, r *http.Request) {
	res, err := h.catalog.KnownSQL(r.Context(), h.database)
	if err != nil {
		writeUpstreamError(w, "failed to get known questions", err)
		return
	}
	models.WriteJSON(w, http.StatusOK, catalogResponse(res, Questions(res)))
}

func catalogResponse(res *models.QueryResult, questions []string) models.CatalogResponse {
	columns := res.Columns
	if columns == nil {
		columns = []string{}
	}
	rows := res.Matrix()
	if rows == nil {
		rows = [][]interface{}{}
	}
	return models.CatalogResponse{
		Status:    "success",
		Columns:   columns,
		Rows:      rows,
		Questions: questions,
		Count:     res.RowCount(),
	}
}

// Questions extracts the question texts from a known-SQL listing: the first
// column whose name mentions "question", else the first column.
func Questions(res *models.QueryResult) []string {
	if res == nil || len(res.Columns) == 0 {
		return nil
	}
	col := res.Columns[0]
	for _, c := range res.Columns {
		if strings.Contains(strings.ToLower(c), "question") {
			col = c
			break
		}
	}
	var out []string
	for _, v := range res.Column(col) {
		if s, ok := v.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, s)
		}
	}
	return out
}
