package directory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Source adapts the pool to the snapshot interface the schedule processor
// consumes.
type Source struct {
	pool *pgxpool.Pool
}

func NewSource(pool *pgxpool.Pool) *Source {
	return &Source{pool: pool}
}

func (s *Source) Snapshot(ctx context.Context) ([]User, []Group, error) {
	return Snapshot(ctx, s.pool)
}

// ListUsers returns all users, newest first.
func ListUsers(ctx context.Context, pool *pgxpool.Pool) ([]User, error) {
	rows, err := pool.Query(ctx, "all_users")
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []User
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role, &u.PushToken, &u.GroupIDs, &u.BirthDate, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListGroups returns all groups, newest first.
func ListGroups(ctx context.Context, pool *pgxpool.Pool) ([]Group, error) {
	rows, err := pool.Query(ctx, "all_groups")
	if err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}
	defer rows.Close()

	var groups []Group
	for rows.Next() {
		var g Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Category, &g.Description, &g.MemberIDs, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, g)
	}
	return groups, rows.Err()
}

// Snapshot loads the full directory in one round-trip pair. The schedule
// processor calls this once per run so every due entry in the run resolves
// against the same state.
func Snapshot(ctx context.Context, pool *pgxpool.Pool) ([]User, []Group, error) {
	users, err := ListUsers(ctx, pool)
	if err != nil {
		return nil, nil, err
	}
	groups, err := ListGroups(ctx, pool)
	if err != nil {
		return nil, nil, err
	}
	return users, groups, nil
}

// UpdateUser patches name and birth date. Empty strings leave fields as-is.
func UpdateUser(ctx context.Context, pool *pgxpool.Pool, id, name, birthDate string) error {
	_, err := pool.Exec(ctx, `
		UPDATE users
		SET name = COALESCE(NULLIF($2, ''), name),
		    birth_date = COALESCE(NULLIF($3, ''), birth_date)
		WHERE id = $1`, id, name, birthDate)
	if err != nil {
		return fmt.Errorf("update user %s: %w", id, err)
	}
	return nil
}

// SetUserRole sets a user's role.
func SetUserRole(ctx context.Context, pool *pgxpool.Pool, id, role string) error {
	_, err := pool.Exec(ctx, "UPDATE users SET role = $2 WHERE id = $1", id, role)
	if err != nil {
		return fmt.Errorf("set role for %s: %w", id, err)
	}
	return nil
}

// RegisterPushToken records a user's push destination, replacing any
// previous one.
func RegisterPushToken(ctx context.Context, pool *pgxpool.Pool, id, token string) error {
	_, err := pool.Exec(ctx, "UPDATE users SET push_token = NULLIF($2, '') WHERE id = $1", id, token)
	if err != nil {
		return fmt.Errorf("register token for %s: %w", id, err)
	}
	return nil
}

// DeleteUser removes a user and scrubs their membership from all groups.
func DeleteUser(ctx context.Context, pool *pgxpool.Pool, id string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete user: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "UPDATE groups SET member_ids = array_remove(member_ids, $1)", id); err != nil {
		return fmt.Errorf("scrub memberships for %s: %w", id, err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM users WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete user %s: %w", id, err)
	}
	return tx.Commit(ctx)
}

// CreateGroup persists a new group and returns its generated id.
func CreateGroup(ctx context.Context, pool *pgxpool.Pool, g Group) (string, error) {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.MemberIDs == nil {
		g.MemberIDs = []string{}
	}
	_, err := pool.Exec(ctx, `
		INSERT INTO groups (id, name, category, description, member_ids, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		g.ID, g.Name, g.Category, g.Description, g.MemberIDs, time.Now().UnixMilli())
	if err != nil {
		return "", fmt.Errorf("create group: %w", err)
	}
	return g.ID, nil
}

// UpdateGroup patches group fields. Nil memberIDs leaves membership as-is.
func UpdateGroup(ctx context.Context, pool *pgxpool.Pool, id, name, category, description string, memberIDs []string) error {
	_, err := pool.Exec(ctx, `
		UPDATE groups
		SET name = COALESCE(NULLIF($2, ''), name),
		    category = COALESCE(NULLIF($3, ''), category),
		    description = COALESCE(NULLIF($4, ''), description),
		    member_ids = COALESCE($5, member_ids)
		WHERE id = $1`, id, name, category, description, memberIDs)
	if err != nil {
		return fmt.Errorf("update group %s: %w", id, err)
	}
	return nil
}

// DeleteGroup removes a group and scrubs it from every user's group list.
func DeleteGroup(ctx context.Context, pool *pgxpool.Pool, id string) error {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete group: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "UPDATE users SET group_ids = array_remove(group_ids, $1)", id); err != nil {
		return fmt.Errorf("scrub group %s from users: %w", id, err)
	}
	if _, err := tx.Exec(ctx, "DELETE FROM groups WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete group %s: %w", id, err)
	}
	return tx.Commit(ctx)
}

// CountTodayCheckIns returns the number of completed check-ins for a date
// (YYYY-MM-DD).
func CountTodayCheckIns(ctx context.Context, pool *pgxpool.Pool, date string) (int, error) {
	var n int
	if err := pool.QueryRow(ctx, "count_today_checkins", date).Scan(&n); err != nil {
		return 0, fmt.Errorf("count check-ins: %w", err)
	}
	return n, nil
}
