package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/api/respond"
)

// Report is a moderation report filed by a user against another user,
// group, or message.
type Report struct {
	ID         string `json:"id"`
	ReporterID string `json:"reporterId"`
	TargetType string `json:"targetType"`
	TargetID   string `json:"targetId"`
	Reason     string `json:"reason"`
	Status     string `json:"status"`
	CreatedAt  int64  `json:"createdAt"`
	ResolvedAt *int64 `json:"resolvedAt,omitempty"`
}

// ListReports returns recent reports, newest first.
// @Summary List moderation reports
// @Tags reports
// @Produce json
// @Success 200 {array} handler.Report
// @Router /reports [get]
func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	rows, err := h.pool.Query(r.Context(), "open_reports", 200)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not load reports")
		return
	}
	defer rows.Close()

	reports := []Report{}
	for rows.Next() {
		var rep Report
		if err := rows.Scan(&rep.ID, &rep.ReporterID, &rep.TargetType, &rep.TargetID,
			&rep.Reason, &rep.Status, &rep.CreatedAt, &rep.ResolvedAt); err != nil {
			respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not read reports")
			return
		}
		reports = append(reports, rep)
	}
	if err := rows.Err(); err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not read reports")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, reports)
}

// ResolveReport marks a report handled.
// @Summary Resolve a report
// @Tags reports
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /reports/{id}/resolve [post]
func (h *Handler) ResolveReport(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	tag, err := h.pool.Exec(r.Context(), `
		UPDATE reports SET status = 'resolved', resolved_at = $2
		WHERE id = $1 AND status = 'open'`, id, time.Now().UnixMilli())
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not resolve report")
		return
	}
	if tag.RowsAffected() == 0 {
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Report not found or already resolved")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"success": true})
}
