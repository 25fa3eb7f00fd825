package handler

import (
	"encoding/json"
	"net/http"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/api/respond"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/mailer"
)

type sendEmailRequest struct {
	To   string `json:"to" validate:"required,email"`
	Name string `json:"name"`
}

// SendEmail sends the welcome email to one recipient. Single templated
// send; no retry.
// @Summary Send a welcome email
// @Tags email
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} respond.ErrorResponse
// @Router /send-email [post]
func (h *Handler) SendEmail(w http.ResponseWriter, r *http.Request) {
	if h.mail == nil {
		respond.WriteError(w, http.StatusServiceUnavailable, "MAIL_DISABLED", "SMTP is not configured")
		return
	}

	var req sendEmailRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	if err := h.mail.Send(req.To, "ברוך הבא לחבר מחויבות", mailer.WelcomeBody(req.Name)); err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "MAIL_FAILURE", "Could not send email")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"success": true})
}
