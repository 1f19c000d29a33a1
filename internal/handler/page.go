package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/cortexai/datachat/internal/middleware"
	"github.com/cortexai/datachat/internal/render"
	"github.com/rs/zerolog/log"
)

const suggestionTimeout = 3 * time.Second

// PageHandler serves the chat page
type PageHandler struct {
	renderer *render.Renderer
	catalog  Catalog
	database string
	auth     bool
}

func NewPageHandler(renderer *render.Renderer, catalog Catalog, database string, auth bool) *PageHandler {
	return &PageHandler{renderer: renderer, catalog: catalog, database: database, auth: auth}
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	data := render.PageData{Authenticated: h.auth}
	if conv := middleware.ConversationFrom(r.Context()); conv != nil {
		data.Turns = conv.Turns()
	}
	data.Questions = h.suggestions(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.Page(w, data); err != nil {
		log.Error().Err(err).Msg("render chat page")
	}
}

// suggestions returns known questions, or none when the backend is slow or
// failing. The page renders either way.
func (h *PageHandler) suggestions(ctx context.Context) []string {
	if h.catalog == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, suggestionTimeout)
	defer cancel()
	res, err := h.catalog.KnownSQL(ctx, h.database)
	if err != nil {
		log.Debug().Err(err).Msg("known questions unavailable")
		return nil
	}
	return Questions(res)
}
