package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/api/respond"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/directory"
)

// ListUsers returns every registered user.
// @Summary List users
// @Tags users
// @Produce json
// @Success 200 {array} directory.User
// @Router /users [get]
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := directory.ListUsers(r.Context(), h.pool)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not load users")
		return
	}
	if users == nil {
		users = []directory.User{}
	}
	respond.WriteJSONObject(w, http.StatusOK, users)
}

type updateUserRequest struct {
	Name      string `json:"name"`
	BirthDate string `json:"birthDate"`
}

// UpdateUser patches a user's editable fields.
// @Summary Update a user
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users/{id} [patch]
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	if err := directory.UpdateUser(r.Context(), h.pool, id, req.Name, req.BirthDate); err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not update user")
		return
	}
	h.cache.Invalidate("dashboard_stats")
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"success": true})
}

// DeleteUser removes a user and their group memberships.
// @Summary Delete a user
// @Tags users
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users/{id} [delete]
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := directory.DeleteUser(r.Context(), h.pool, id); err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not delete user")
		return
	}
	h.cache.Invalidate("dashboard_stats")
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"success": true})
}

type changeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=member moderator admin"`
}

// ChangeRole sets a user's role.
// @Summary Change a user's role
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/role [post]
func (h *Handler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req changeRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}
	if err := directory.SetUserRole(r.Context(), h.pool, id, req.Role); err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not change role")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"success": true})
}

type registerTokenRequest struct {
	Token string `json:"token"`
}

// RegisterToken overrides a user's push destination. An empty token clears
// it, making the user unreachable by push.
// @Summary Register or clear a user's push token
// @Tags users
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /users/{id}/push-token [post]
func (h *Handler) RegisterToken(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req registerTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	if err := directory.RegisterPushToken(r.Context(), h.pool, id, req.Token); err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not register token")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"success": true})
}
