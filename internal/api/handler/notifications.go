package handler

import (
	"encoding/json"
	"net/http"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/api/respond"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/cache"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/notify"
)

type sendPushRequest struct {
	Tokens []string          `json:"tokens"`
	Title  string            `json:"title" validate:"required"`
	Body   string            `json:"body" validate:"required"`
	Data   map[string]string `json:"data"`
}

// SendPush delivers a push to an explicit token list immediately.
// @Summary Send an immediate push
// @Description Routes tokens across the Expo relay and FCM and returns aggregate delivery counts.
// @Tags notifications
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Router /send-push [post]
func (h *Handler) SendPush(w http.ResponseWriter, r *http.Request) {
	var req sendPushRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	if len(req.Tokens) == 0 {
		respond.WriteError(w, http.StatusBadRequest, "NO_RECIPIENTS", "No tokens provided")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	out := h.dispatcher.Send(r.Context(), req.Tokens, req.Title, req.Body, req.Data)
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"successCount": out.Success,
		"failureCount": out.Failure,
	})
}

type scheduleRequest struct {
	Title         string        `json:"title" validate:"required"`
	Body          string        `json:"body" validate:"required"`
	Link          string        `json:"link"`
	ScheduledTime int64         `json:"scheduledTime" validate:"required"`
	Target        notify.Target `json:"target"`
}

// ScheduleNotification persists a notification for future dispatch.
// @Summary Schedule a notification
// @Description Creates a pending entry. A scheduled time in the past is due on the next processor run.
// @Tags notifications
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /schedule-notification [post]
func (h *Handler) ScheduleNotification(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	if !req.Target.Valid() {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_TARGET", "Unknown or incomplete audience descriptor")
		return
	}

	n := &notify.Scheduled{
		Title:         req.Title,
		Body:          req.Body,
		Link:          req.Link,
		ScheduledTime: req.ScheduledTime,
		Target:        req.Target,
	}
	if _, err := h.store.Insert(r.Context(), n); err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not persist scheduled notification")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"success": true})
}

// ProcessScheduled runs the schedule processor once. The /cron route wraps
// this same handler behind the trigger gate and relays its body unchanged.
// @Summary Process due scheduled notifications
// @Tags notifications
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} respond.ErrorResponse
// @Router /process-scheduled [get]
func (h *Handler) ProcessScheduled(w http.ResponseWriter, r *http.Request) {
	processed, err := h.processor.Run(r.Context())
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", err.Error())
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{
		"success":   true,
		"processed": processed,
	})
}

// ScheduledHistory lists recent scheduled notifications, any status.
// @Summary Scheduled notification history
// @Tags notifications
// @Produce json
// @Success 200 {array} notify.Scheduled
// @Router /notifications/scheduled [get]
func (h *Handler) ScheduledHistory(w http.ResponseWriter, r *http.Request) {
	const key = "scheduled_history"
	if data, etag, ok := h.cache.Get(key); ok {
		if r.Header.Get("If-None-Match") == etag {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLHistory, true)
		return
	}

	entries, err := h.store.History(r.Context(), 100)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not load history")
		return
	}
	if entries == nil {
		entries = []notify.Scheduled{}
	}
	data, err := json.Marshal(entries)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not encode history")
		return
	}
	etag := h.cache.Set(key, data, cache.TTLHistory)
	respond.WriteJSON(w, data, etag, cache.TTLHistory, false)
}
