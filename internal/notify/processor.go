package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/directory"
)

// ScheduleStore is the slice of Store the processor needs.
type ScheduleStore interface {
	ClaimDue(ctx context.Context) ([]Scheduled, error)
	MarkSent(ctx context.Context, id string, sentAt int64, outcome *Outcome) error
}

// DirectorySource loads the current user/group state.
type DirectorySource interface {
	Snapshot(ctx context.Context) ([]directory.User, []directory.Group, error)
}

// Sender is the dispatch entry point the processor fans out through.
type Sender interface {
	Send(ctx context.Context, tokens []string, title, body string, data map[string]string) Outcome
}

// Processor drains due scheduled notifications. It owns no timer; each Run
// is one pass, invoked by the trigger endpoint, the opsctl CLI, or the
// optional in-process worker.
type Processor struct {
	store  ScheduleStore
	dir    DirectorySource
	sender Sender
	logger *slog.Logger
}

func NewProcessor(store ScheduleStore, dir DirectorySource, sender Sender, logger *slog.Logger) *Processor {
	return &Processor{store: store, dir: dir, sender: sender, logger: logger}
}

// Run processes every due entry once and returns how many were finalized.
//
// The directory snapshot is loaded before claiming so a snapshot failure
// aborts the run with nothing claimed. Each claimed entry is re-resolved
// against that snapshot — membership changes since scheduling are always
// honored — dispatched when any recipient is reachable, and finalized to
// sent unconditionally: a dispatch failure is already accounted inside the
// outcome, and a zero-recipient schedule is still considered delivered.
// A store failure aborts the run; entries not yet finalized are reclaimed
// by a later run once their claim goes stale.
func (p *Processor) Run(ctx context.Context) (int, error) {
	users, groups, err := p.dir.Snapshot(ctx)
	if err != nil {
		return 0, fmt.Errorf("load directory snapshot: %w", err)
	}

	claimed, err := p.store.ClaimDue(ctx)
	if err != nil {
		return 0, err
	}
	if len(claimed) == 0 {
		return 0, nil
	}

	processed := 0
	for _, n := range claimed {
		tokens := Resolve(n.Target, users, groups)

		var outcome *Outcome
		if len(tokens) > 0 {
			out := p.sender.Send(ctx, tokens, n.Title, n.Body, map[string]string{"link": n.Link})
			outcome = &out
			p.logger.Info("scheduled notification dispatched",
				"id", n.ID, "recipients", len(tokens),
				"success", out.Success, "failure", out.Failure)
		} else {
			p.logger.Info("scheduled notification had no reachable recipients",
				"id", n.ID, "target", string(n.Target.Type))
		}

		if err := p.store.MarkSent(ctx, n.ID, time.Now().UnixMilli(), outcome); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}
