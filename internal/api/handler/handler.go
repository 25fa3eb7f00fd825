// Package handler provides HTTP handlers for all API endpoints. Handlers
// query Postgres directly via pgxpool — no service layer — and hand the
// notification pipeline off to the notify package.
package handler

import (
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/api/respond"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/cache"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/config"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/mailer"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/notify"
)

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	pool       *pgxpool.Pool
	cache      *cache.Cache
	cfg        *config.Config
	store      *notify.Store
	processor  *notify.Processor
	dispatcher *notify.Dispatcher
	mail       mailer.Mailer
	validate   *validator.Validate
}

// New creates a Handler with shared dependencies. mail may be nil when SMTP
// is not configured.
func New(pool *pgxpool.Pool, c *cache.Cache, cfg *config.Config, store *notify.Store, proc *notify.Processor, disp *notify.Dispatcher, mail mailer.Mailer) *Handler {
	return &Handler{
		pool:       pool,
		cache:      c,
		cfg:        cfg,
		store:      store,
		processor:  proc,
		dispatcher: disp,
		mail:       mail,
		validate:   validator.New(),
	}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, and status.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"name":    "Chaver Mechuyvut Operator API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity.
// @Summary Database health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	var n int
	err := h.pool.QueryRow(r.Context(), "health_check").Scan(&n)
	if err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":    "unhealthy",
			"database":  "disconnected",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
