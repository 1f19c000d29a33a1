package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/cortexai/datachat/internal/models"
)

// Embedder stores a question/SQL pair the user marked as correct.
type Embedder interface {
	EmbedSQL(ctx context.Context, question, sql, database string) error
}

// Answerer produces a natural-language answer to a question.
type Answerer interface {
	NaturalResponse(ctx context.Context, question, database string) (string, error)
}

// FeedbackHandler handles answer feedback and natural-language answers
type FeedbackHandler struct {
	embedder Embedder
	answerer Answerer
	database string
}

func NewFeedbackHandler(embedder Embedder, answerer Answerer, database string) *FeedbackHandler {
	return &FeedbackHandler{embedder: embedder, answerer: answerer, database: database}
}

// Feedback handles POST /api/v1/feedback
func (h *FeedbackHandler) Feedback(w http.ResponseWriter, r *http.Request) {
	var req models.FeedbackRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" || strings.TrimSpace(req.SQL) == "" {
		models.WriteError(w, http.StatusBadRequest, "question and sql are required")
		return
	}

	if err := h.embedder.EmbedSQL(r.Context(), req.Question, req.SQL, h.database); err != nil {
		writeUpstreamError(w, "failed to store feedback", err)
		return
	}
	models.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "success",
	})
}

// Answer handles POST /api/v1/answer
func (h *FeedbackHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req models.AnswerRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		models.WriteError(w, http.StatusBadRequest, "question is required")
		return
	}

	answer, err := h.answerer.NaturalResponse(r.Context(), req.Question, h.database)
	if err != nil {
		writeUpstreamError(w, "failed to generate answer", err)
		return
	}
	models.WriteJSON(w, http.StatusOK, models.AnswerResponse{
		Status: "success",
		Answer: answer,
	})
}
