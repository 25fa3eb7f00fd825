package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/api/respond"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/cache"
	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/directory"
)

// DashboardStats is the operator dashboard summary.
type DashboardStats struct {
	TotalUsers    int    `json:"totalUsers"`
	ActiveUsers   int    `json:"activeUsers"`
	TotalGroups   int    `json:"totalGroups"`
	TodayCheckIns int    `json:"todayCheckIns"`
	UsersChange   string `json:"usersChange"`
	GroupsChange  string `json:"groupsChange"`
	UsersDiff     int    `json:"usersDiff"`
	GroupsDiff    int    `json:"groupsDiff"`
}

// Dashboard serves the cached dashboard summary.
// @Summary Dashboard statistics
// @Description Totals, active users, today's completed check-ins, and week-over-week growth.
// @Tags stats
// @Produce json
// @Success 200 {object} handler.DashboardStats
// @Router /stats/dashboard [get]
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	const key = "dashboard_stats"
	if data, etag, ok := h.cache.Get(key); ok {
		if r.Header.Get("If-None-Match") == etag {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, cache.TTLDashboard, true)
		return
	}

	ctx := r.Context()
	users, groups, err := directory.Snapshot(ctx, h.pool)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not load directory")
		return
	}
	now := time.Now()
	checkins, err := directory.CountTodayCheckIns(ctx, h.pool, now.Format("2006-01-02"))
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "STORE_FAILURE", "Could not count check-ins")
		return
	}

	stats := computeDashboardStats(users, groups, checkins, now)
	data, err := json.Marshal(stats)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "INTERNAL", "Could not encode stats")
		return
	}
	etag := h.cache.Set(key, data, cache.TTLDashboard)
	respond.WriteJSON(w, data, etag, cache.TTLDashboard, false)
}

// computeDashboardStats derives the summary from a directory snapshot.
// "Active" means a member of at least one group. Change percentages compare
// this week's new records against the week before.
func computeDashboardStats(users []directory.User, groups []directory.Group, todayCheckIns int, now time.Time) DashboardStats {
	weekAgo := now.Add(-7 * 24 * time.Hour).UnixMilli()
	twoWeeksAgo := now.Add(-14 * 24 * time.Hour).UnixMilli()

	active := 0
	usersThisWeek, usersLastWeek := 0, 0
	for _, u := range users {
		if len(u.GroupIDs) > 0 {
			active++
		}
		switch {
		case u.CreatedAt >= weekAgo:
			usersThisWeek++
		case u.CreatedAt >= twoWeeksAgo:
			usersLastWeek++
		}
	}

	groupsThisWeek, groupsLastWeek := 0, 0
	for _, g := range groups {
		switch {
		case g.CreatedAt >= weekAgo:
			groupsThisWeek++
		case g.CreatedAt >= twoWeeksAgo:
			groupsLastWeek++
		}
	}

	usersDiff := usersThisWeek - usersLastWeek
	groupsDiff := groupsThisWeek - groupsLastWeek

	return DashboardStats{
		TotalUsers:    len(users),
		ActiveUsers:   active,
		TotalGroups:   len(groups),
		TodayCheckIns: todayCheckIns,
		UsersChange:   changePercent(usersDiff, usersLastWeek),
		GroupsChange:  changePercent(groupsDiff, groupsLastWeek),
		UsersDiff:     usersDiff,
		GroupsDiff:    groupsDiff,
	}
}

func changePercent(diff, base int) string {
	if base <= 0 {
		return "0%"
	}
	pct := int(float64(diff) / float64(base) * 100)
	if pct >= 0 {
		return fmt.Sprintf("+%d%%", pct)
	}
	return fmt.Sprintf("%d%%", pct)
}
