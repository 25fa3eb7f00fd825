package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	corslib "github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/api/handler"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/config"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(h *handler.Handler, cfg *config.Config) *chi.Mux {
	r := chi.NewRouter()

	// --- Middleware stack ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(TimingMiddleware)
	r.Use(middleware.Compress(5)) // gzip

	// CORS
	c := corslib.New(corslib.Options{
		AllowedOrigins:   cfg.CORSAllowOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Accept-Encoding", "Authorization", "Content-Type", "If-None-Match", "Cache-Control"},
		ExposedHeaders:   []string{"X-Process-Time", "X-Cache", "ETag"},
		AllowCredentials: false,
	})
	r.Use(c.Handler)

	// Rate limiting
	if cfg.RateLimitEnabled {
		r.Use(RateLimitMiddleware(cfg.RateLimitRequests, cfg.RateLimitWindow))
	}

	// --- Routes ---

	// Root
	r.Get("/", h.Root)

	// Health checks
	r.Route("/health", func(r chi.Router) {
		r.Get("/", h.HealthCheck)
		r.Get("/db", h.HealthCheckDB)
		r.Get("/cache", h.HealthCheckCache)
	})

	// Swagger UI
	r.Get("/docs/*", httpSwagger.Handler(
		httpSwagger.URL("/docs/doc.json"),
	))

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Notification pipeline
		r.Post("/send-push", h.SendPush)
		r.Post("/schedule-notification", h.ScheduleNotification)
		r.Get("/process-scheduled", h.ProcessScheduled)
		r.Get("/notifications/scheduled", h.ScheduledHistory)

		// Trigger gate: same processor run, behind the shared secret.
		r.With(RequireCronSecret(cfg.CronSecret)).Get("/cron", h.ProcessScheduled)

		// Users
		r.Get("/users", h.ListUsers)
		r.Patch("/users/{id}", h.UpdateUser)
		r.Delete("/users/{id}", h.DeleteUser)
		r.Post("/users/{id}/role", h.ChangeRole)
		r.Post("/users/{id}/push-token", h.RegisterToken)

		// Groups
		r.Get("/groups", h.ListGroups)
		r.Post("/groups", h.CreateGroup)
		r.Patch("/groups/{id}", h.UpdateGroup)
		r.Delete("/groups/{id}", h.DeleteGroup)

		// Reports
		r.Get("/reports", h.ListReports)
		r.Post("/reports/{id}/resolve", h.ResolveReport)

		// Stats
		r.Get("/stats/dashboard", h.Dashboard)

		// Email
		r.Post("/send-email", h.SendEmail)
	})

	return r
}
