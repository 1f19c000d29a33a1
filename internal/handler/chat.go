package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/cortexai/datachat/internal/chat"
	"github.com/cortexai/datachat/internal/conversation"
	"github.com/cortexai/datachat/internal/middleware"
	"github.com/cortexai/datachat/internal/models"
	"github.com/cortexai/datachat/internal/render"
)

// Turner runs one conversational turn.
type Turner interface {
	Handle(ctx context.Context, s *conversation.Session, question string) *chat.Reply
}

// Resetter replaces the caller's conversation with an empty one.
type Resetter interface {
	Reset(w http.ResponseWriter, r *http.Request) (*conversation.Session, error)
}

// ChatHandler handles the conversation endpoints
type ChatHandler struct {
	turns    Turner
	sessions Resetter
}

func NewChatHandler(turns Turner, sessions Resetter) *ChatHandler {
	return &ChatHandler{turns: turns, sessions: sessions}
}

// Chat handles POST /api/v1/chat
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := models.DecodeJSON(r, &req); err != nil {
		models.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	question := strings.TrimSpace(req.Question)
	if question == "" {
		models.WriteError(w, http.StatusBadRequest, "question is required")
		return
	}

	conv := middleware.ConversationFrom(r.Context())
	if conv == nil {
		models.WriteError(w, http.StatusInternalServerError, "no conversation bound to request")
		return
	}

	// A started turn runs to completion even if the client goes away.
	reply := h.turns.Handle(context.WithoutCancel(r.Context()), conv, question)

	resp := models.ChatResponse{
		Status:      "success",
		Message:     reply.Message,
		Succeeded:   reply.Succeeded,
		Stages:      reply.StageNames(),
		FailureKind: reply.FailureKind,
		Turns:       conv.Len(),
	}
	if reply.Succeeded {
		resp.SQL = reply.SQL
		resp.Columns = reply.Result.Columns
		resp.Rows = reply.Result.Matrix()
		resp.Charts = reply.Charts
		resp.ChartDocuments = render.ChartDocuments(reply.Charts)
	}
	models.WriteJSON(w, http.StatusOK, resp)
}

// History handles GET /api/v1/history
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	conv := middleware.ConversationFrom(r.Context())
	if conv == nil {
		models.WriteError(w, http.StatusInternalServerError, "no conversation bound to request")
		return
	}
	models.WriteJSON(w, http.StatusOK, models.HistoryResponse{
		Status:    "success",
		SessionID: conv.ID,
		Turns:     conv.Turns(),
	})
}

// ResetHistory handles DELETE /api/v1/history
func (h *ChatHandler) ResetHistory(w http.ResponseWriter, r *http.Request) {
	conv, err := h.sessions.Reset(w, r)
	if err != nil {
		models.WriteError(w, http.StatusInternalServerError, "failed to reset conversation: "+err.Error())
		return
	}
	models.WriteJSON(w, http.StatusOK, models.HistoryResponse{
		Status:    "success",
		SessionID: conv.ID,
		Turns:     []models.Turn{},
	})
}
