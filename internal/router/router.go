package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/premiumclub/portal/internal/gate"
	"github.com/premiumclub/portal/internal/handler"
	"github.com/premiumclub/portal/internal/middleware/metrics"
)

// New assembles the portal routes. Content routes sit behind the access
// gate; login, registration and the session probe stay open.
func New(h *handler.Handler, allowedOrigins []string) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(metrics.Middleware)
	if len(allowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   allowedOrigins,
			AllowedMethods:   []string{"GET", "POST"},
			AllowedHeaders:   []string{"Accept", "Content-Type"},
			AllowCredentials: true,
		}))
	}

	r.Get("/health", h.Health)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Post("/login", h.Login)
	r.Post("/register", h.Register)
	r.Post("/logout", h.Logout)
	r.Get("/session", h.Session)

	r.Group(func(r chi.Router) {
		r.Use(gate.Middleware(h.Sessions))
		r.Post("/refresh", h.Refresh)
		r.Get("/notifications", h.Notifications)
		r.Post("/notifications/read", h.MarkNotificationsRead)
		r.Post("/polling/pause", h.PausePolling)
		r.Post("/polling/resume", h.ResumePolling)
	})

	return r
}
