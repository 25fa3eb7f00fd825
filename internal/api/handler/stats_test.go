package handler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/directory"
)

func TestComputeDashboardStats(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	ms := func(daysAgo int) int64 { return now.Add(-time.Duration(daysAgo) * 24 * time.Hour).UnixMilli() }

	users := []directory.User{
		{ID: "u1", GroupIDs: []string{"g1"}, CreatedAt: ms(1)},  // this week, active
		{ID: "u2", GroupIDs: nil, CreatedAt: ms(2)},             // this week
		{ID: "u3", GroupIDs: []string{"g1"}, CreatedAt: ms(10)}, // last week, active
		{ID: "u4", CreatedAt: ms(30)},                           // older
	}
	groups := []directory.Group{
		{ID: "g1", CreatedAt: ms(9)},  // last week
		{ID: "g2", CreatedAt: ms(12)}, // last week
		{ID: "g3", CreatedAt: ms(3)},  // this week
	}

	stats := computeDashboardStats(users, groups, 5, now)

	assert.Equal(t, 4, stats.TotalUsers)
	assert.Equal(t, 2, stats.ActiveUsers)
	assert.Equal(t, 3, stats.TotalGroups)
	assert.Equal(t, 5, stats.TodayCheckIns)

	// 2 new users this week vs 1 last week → +1 (+100%)
	assert.Equal(t, 1, stats.UsersDiff)
	assert.Equal(t, "+100%", stats.UsersChange)

	// 1 new group this week vs 2 last week → -1 (-50%)
	assert.Equal(t, -1, stats.GroupsDiff)
	assert.Equal(t, "-50%", stats.GroupsChange)
}

func TestComputeDashboardStatsEmptyBaseline(t *testing.T) {
	now := time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)
	users := []directory.User{
		{ID: "u1", CreatedAt: now.Add(-24 * time.Hour).UnixMilli()},
	}

	stats := computeDashboardStats(users, nil, 0, now)

	// No records the week before: percent change is reported flat, not
	// divided by zero.
	assert.Equal(t, "0%", stats.UsersChange)
	assert.Equal(t, "0%", stats.GroupsChange)
	assert.Equal(t, 1, stats.UsersDiff)
}
