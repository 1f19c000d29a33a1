package server

import (
	"net/http"

	"github.com/cortexai/datachat/internal/config"
	"github.com/cortexai/datachat/internal/handler"
	"github.com/cortexai/datachat/internal/middleware"
	"github.com/cortexai/datachat/internal/render"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

func (s *Server) setupRoutes() (http.Handler, error) {
	cfg := s.cfg
	a := s.app

	// ─── Presentation ───────────────────────────────────────────────────────────
	renderer, err := render.New(cfg.Title, cfg.Locale, cfg.APIPrefix)
	if err != nil {
		return nil, err
	}
	sessions := middleware.NewSessionManager(cfg.Auth.SessionSecret, cfg.IsProduction(), a.Conversations)
	keys := middleware.NewAccessKeys(cfg.Auth.AccessKeys)

	if cfg.Auth.Enabled && cfg.Auth.SessionSecret == "" {
		log.Warn().Msg("WARNING: auth enabled without a session secret - logins are lost on restart")
	}

	// ─── Handlers ────────────────────────────────────────────────────────────────
	var warehouseCheck handler.HealthChecker
	if hc := a.WarehouseHealth(); hc != nil {
		warehouseCheck = hc
	}
	healthH := handler.NewHealthHandler(map[string]handler.HealthChecker{
		"backend":   a.Backend,
		"warehouse": warehouseCheck,
	})
	chatH := handler.NewChatHandler(a.Orchestrator, sessions)
	catalogH := handler.NewCatalogHandler(a.Backend, cfg.Database())
	feedbackH := handler.NewFeedbackHandler(a.Backend, a.Backend, cfg.Database())
	pageH := handler.NewPageHandler(renderer, a.Backend, cfg.Database(), cfg.Auth.Enabled)
	loginH := handler.NewLoginHandler(renderer, sessions, keys)

	// ─── Router ──────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins, config.DefaultCORSMaxAge)))

	// Public routes
	r.Get("/health", healthH.Health)
	r.Handle("/static/*", render.Static())

	r.Group(func(r chi.Router) {
		r.Use(sessions.Middleware)
		if cfg.Auth.Enabled {
			r.Use(middleware.LoginGate(sessions, keys, cfg.APIPrefix))
			r.Get("/login", loginH.Show)
			r.Post("/login", loginH.Submit)
			r.Post("/logout", loginH.Logout)
		}

		r.Get("/", pageH.Index)

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			r.Get("/health", healthH.Health)

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(cfg.RateLimitPerMinute))

				r.Post("/chat", chatH.Chat)
				r.Get("/history", chatH.History)
				r.Delete("/history", chatH.ResetHistory)
				r.Get("/databases", catalogH.Databases)
				r.Get("/known-questions", catalogH.KnownQuestions)
				r.Post("/feedback", feedbackH.Feedback)
				r.Post("/answer", feedbackH.Answer)
			})
		})
	})

	return r, nil
}
