package handler

import (
	"net/http"

	"github.com/cortexai/datachat/internal/middleware"
	"github.com/cortexai/datachat/internal/models"
	"github.com/cortexai/datachat/internal/render"
	"github.com/rs/zerolog/log"
)

// LoginHandler handles the access-key login gate
type LoginHandler struct {
	renderer *render.Renderer
	sessions *middleware.SessionManager
	keys     middleware.AccessKeys
}

func NewLoginHandler(renderer *render.Renderer, sessions *middleware.SessionManager, keys middleware.AccessKeys) *LoginHandler {
	return &LoginHandler{renderer: renderer, sessions: sessions, keys: keys}
}

// Show handles GET /login
func (h *LoginHandler) Show(w http.ResponseWriter, r *http.Request) {
	if h.sessions.IsAuthenticated(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	h.render(w, http.StatusOK, false)
}

// Submit handles POST /login
func (h *LoginHandler) Submit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, models.MaxBodyBytes)
	if err := r.ParseForm(); err != nil {
		models.WriteError(w, http.StatusBadRequest, "invalid form: "+err.Error())
		return
	}

	if !h.keys.Valid(r.PostFormValue("key")) {
		log.Warn().Str("remote_addr", r.RemoteAddr).Msg("login rejected")
		h.render(w, http.StatusUnauthorized, true)
		return
	}

	if err := h.sessions.Login(w, r); err != nil {
		models.WriteError(w, http.StatusInternalServerError, "failed to save session: "+err.Error())
		return
	}
	log.Info().Str("remote_addr", r.RemoteAddr).Msg("login accepted")
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// Logout handles POST /logout
func (h *LoginHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Logout(w, r); err != nil {
		log.Error().Err(err).Msg("clear session")
	}
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *LoginHandler) render(w http.ResponseWriter, status int, invalid bool) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := h.renderer.Login(w, render.LoginData{Invalid: invalid}); err != nil {
		log.Error().Err(err).Msg("render login page")
	}
}
