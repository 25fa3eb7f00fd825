package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists scheduled notifications. The claim query is the only
// guard around the pending → sent transition: overlapping processor runs
// each claim a disjoint set, so no due entry is dispatched twice.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Insert persists a new pending entry and returns its id. A scheduled time
// in the past is accepted; the entry is simply due immediately.
func (s *Store) Insert(ctx context.Context, n *Scheduled) (string, error) {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.Status = StatusPending
	n.CreatedAt = time.Now().UnixMilli()

	_, err := s.pool.Exec(ctx, `
		INSERT INTO scheduled_notifications (
			id, title, body, link, scheduled_time,
			target_type, target_group_id, target_user_id,
			status, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,'pending',$9)`,
		n.ID, n.Title, n.Body, n.Link, n.ScheduledTime,
		n.Target.Type, n.Target.GroupID, n.Target.UserID,
		n.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert scheduled notification: %w", err)
	}
	return n.ID, nil
}

// ClaimDue atomically claims a batch of due entries for this run by moving
// them to 'processing'. Uses FOR UPDATE SKIP LOCKED so concurrent trigger
// invocations never claim the same entry. Rows stuck in 'processing' past
// the stale age (a crashed run) become claimable again, keeping delivery
// at-least-once.
func (s *Store) ClaimDue(ctx context.Context) ([]Scheduled, error) {
	now := time.Now().UnixMilli()
	staleBefore := now - staleClaimAge.Milliseconds()

	rows, err := s.pool.Query(ctx, `
		UPDATE scheduled_notifications
		SET status = 'processing', claimed_at = $1
		WHERE id IN (
			SELECT id FROM scheduled_notifications
			WHERE (status = 'pending' AND scheduled_time <= $1)
			   OR (status = 'processing' AND claimed_at <= $2)
			ORDER BY scheduled_time
			LIMIT $3
			FOR UPDATE SKIP LOCKED
		)
		RETURNING id, title, body, link, scheduled_time,
		          target_type, target_group_id, target_user_id,
		          status, created_at`,
		now, staleBefore, claimBatchSize,
	)
	if err != nil {
		return nil, fmt.Errorf("claim due notifications: %w", err)
	}
	defer rows.Close()

	var claimed []Scheduled
	for rows.Next() {
		var n Scheduled
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Link, &n.ScheduledTime,
			&n.Target.Type, &n.Target.GroupID, &n.Target.UserID,
			&n.Status, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan claimed: %w", err)
		}
		claimed = append(claimed, n)
	}
	return claimed, rows.Err()
}

// MarkSent finalizes an entry. outcome may be nil (entry resolved to zero
// recipients); the counts then stay NULL while the entry is still sent —
// a schedule with no reachable recipients is considered delivered.
func (s *Store) MarkSent(ctx context.Context, id string, sentAt int64, outcome *Outcome) error {
	var success, failure *int
	if outcome != nil {
		success, failure = &outcome.Success, &outcome.Failure
	}
	_, err := s.pool.Exec(ctx, `
		UPDATE scheduled_notifications
		SET status = 'sent', sent_at = $2, success_count = $3, failure_count = $4
		WHERE id = $1`, id, sentAt, success, failure)
	if err != nil {
		return fmt.Errorf("mark sent %s: %w", id, err)
	}
	return nil
}

// History returns the most recent entries, any status, newest first.
// Entries are never deleted by this subsystem; the sent rows are the
// delivery history.
func (s *Store) History(ctx context.Context, limit int) ([]Scheduled, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx, "scheduled_history", limit)
	if err != nil {
		return nil, fmt.Errorf("list scheduled history: %w", err)
	}
	defer rows.Close()

	var out []Scheduled
	for rows.Next() {
		var n Scheduled
		if err := rows.Scan(&n.ID, &n.Title, &n.Body, &n.Link, &n.ScheduledTime,
			&n.Target.Type, &n.Target.GroupID, &n.Target.UserID,
			&n.Status, &n.CreatedAt, &n.SentAt, &n.SuccessCount, &n.FailureCount); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}
