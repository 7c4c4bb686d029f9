package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"mediai/backend/internal/auth"
	"mediai/backend/internal/metrics"
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Chat    *ChatHandler
	User    *UserHandler
	Admin   *AdminHandler
	Auth    *auth.Middleware
	Metrics *metrics.Metrics
}

// NewRouter creates and configures a new chi router with all the application's routes.
func NewRouter(h Handlers) *chi.Mux {
	r := chi.NewRouter()

	// --- Global Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(h.Metrics))
	r.Use(middleware.Recoverer)

	// Liveness probe for container orchestration.
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())
	}

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/logout", h.User.Logout)

		// Streaming endpoints hold the connection for the whole reply and
		// must NOT have a timeout.
		r.Post("/chat/public", h.Chat.PublicChat)
		r.With(h.Auth.RequireUser).Post("/chat/conversations/{conversationID}/messages", h.Chat.SendMessage)

		// JSON routes get a request timeout.
		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(60 * time.Second))
			r.Use(h.Auth.RequireUser)

			r.Get("/auth/me", h.User.Me)
			r.Put("/user/profile", h.User.UpdateProfile)

			r.Get("/chat/conversations", h.Chat.ListConversations)
			r.Post("/chat/conversations", h.Chat.CreateConversation)
			r.Get("/chat/conversations/{conversationID}/messages", h.Chat.GetMessages)

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireAdmin)
				r.Get("/users", h.Admin.ListUsers)
				r.Put("/users", h.Admin.UpdateUserStatus)
				r.Get("/textbooks", h.Admin.ListTextbooks)
			})
		})
	})

	return r
}
