// Package db provides a pgxpool-based connection pool with prepared statement
// registration and health checking.
package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/config"
)

// Pool wraps pgxpool.Pool with application-specific helpers.
type Pool struct {
	*pgxpool.Pool
}

// New creates and validates a new connection pool.
func New(ctx context.Context, cfg *config.Config) (*Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolCfg.MinConns = int32(cfg.DBPoolMinConns)
	poolCfg.MaxConns = int32(cfg.DBPoolMaxConns)
	poolCfg.MaxConnLifetime = cfg.DBPoolMaxLife
	poolCfg.MaxConnIdleTime = 5 * time.Minute

	// Register prepared statements on every new connection.
	poolCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return registerPreparedStatements(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	// Verify connectivity
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// HealthCheck runs a trivial query to verify the database is reachable.
func (p *Pool) HealthCheck(ctx context.Context) error {
	var n int
	return p.QueryRow(ctx, "health_check").Scan(&n)
}

// registerPreparedStatements registers all statements the API layer uses.
// Prepared statements eliminate parse overhead on every request.
func registerPreparedStatements(ctx context.Context, conn *pgx.Conn) error {
	stmts := map[string]string{
		// Health
		"health_check": "SELECT 1",

		// Directory: users
		"all_users":  "SELECT id, name, role, COALESCE(push_token, ''), group_ids, birth_date, created_at FROM users ORDER BY created_at DESC",
		"user_by_id": "SELECT id, name, role, COALESCE(push_token, ''), group_ids, birth_date, created_at FROM users WHERE id = $1",

		// Directory: groups
		"all_groups":  "SELECT id, name, category, description, member_ids, created_at FROM groups ORDER BY created_at DESC",
		"group_by_id": "SELECT id, name, category, description, member_ids, created_at FROM groups WHERE id = $1",

		// Dashboard stats
		"count_today_checkins": "SELECT COUNT(*) FROM daily_checkins WHERE date = $1 AND completed",

		// Reports
		"open_reports": "SELECT id, reporter_id, target_type, target_id, reason, status, created_at, resolved_at FROM reports ORDER BY created_at DESC LIMIT $1",

		// Scheduled notifications: history listing
		"scheduled_history": "SELECT id, title, body, link, scheduled_time, target_type, target_group_id, target_user_id, status, created_at, sent_at, success_count, failure_count FROM scheduled_notifications ORDER BY created_at DESC LIMIT $1",
	}

	for name, sql := range stmts {
		if _, err := conn.Prepare(ctx, name, sql); err != nil {
			return fmt.Errorf("prepare %q: %w", name, err)
		}
	}
	return nil
}
