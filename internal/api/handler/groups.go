package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/api/respond"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/directory"
)

// ListGroups returns every group.
// @Summary List groups
// @Tags groups
// @Produce json
// @Success 200 {array} directory.Group
// @Router /groups [get]
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := directory.ListGroups(r.Context(), h.pool)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not load groups")
		return
	}
	if groups == nil {
		groups = []directory.Group{}
	}
	respond.WriteJSONObject(w, http.StatusOK, groups)
}

type groupRequest struct {
	Name        string   `json:"name" validate:"required"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	MemberIDs   []string `json:"memberIds"`
}

// CreateGroup persists a new group.
// @Summary Create a group
// @Tags groups
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /groups [post]
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	id, err := directory.CreateGroup(r.Context(), h.pool, directory.Group{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		MemberIDs:   req.MemberIDs,
	})
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not create group")
		return
	}
	h.cache.Invalidate("dashboard_stats")
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"success": true, "id": id})
}

// UpdateGroup patches group fields and membership.
// @Summary Update a group
// @Tags groups
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /groups/{id} [patch]
func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req struct {
		Name        string   `json:"name"`
		Category    string   `json:"category"`
		Description string   `json:"description"`
		MemberIDs   []string `json:"memberIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteError(w, http.StatusBadRequest, "BAD_REQUEST", "Invalid JSON body")
		return
	}
	if err := directory.UpdateGroup(r.Context(), h.pool, id, req.Name, req.Category, req.Description, req.MemberIDs); err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not update group")
		return
	}
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"success": true})
}

// DeleteGroup removes a group and scrubs it from user memberships.
// @Summary Delete a group
// @Tags groups
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /groups/{id} [delete]
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := directory.DeleteGroup(r.Context(), h.pool, id); err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not delete group")
		return
	}
	h.cache.Invalidate("dashboard_stats")
	respond.WriteJSONObject(w, http.StatusOK, map[string]interface{}{"success": true})
}
