// Package notify implements the push-notification pipeline: audience
// resolution, routing across the two push transports (Expo relay and FCM),
// aggregate delivery accounting, and the scheduled-dispatch state machine.
//
// Pipeline: operator request → resolve audience → partition tokens by
// transport → fan out → aggregate outcome. Scheduled requests are persisted
// and picked up later by the processor, which re-resolves the audience
// against the directory as it stands at processing time.
package notify

import "time"

// --------------------------------------------------------------------------
// Constants
// --------------------------------------------------------------------------

// BridgeTokenPrefix marks tokens that route through the Expo push relay.
// Everything else is treated as a raw FCM device token. The kind is decided
// structurally on every send; nothing is stored.
const BridgeTokenPrefix = "ExponentPushToken["

const (
	claimBatchSize = 100
	// A 'processing' row older than this is considered abandoned by a
	// crashed run and becomes claimable again.
	staleClaimAge = 10 * time.Minute

	defaultTransportTimeout = 10 * time.Second
)

// --------------------------------------------------------------------------
// Audience descriptor
// --------------------------------------------------------------------------

// TargetType discriminates the audience descriptor.
type TargetType string

const (
	TargetGeneral  TargetType = "general"
	TargetGroup    TargetType = "group"
	TargetUser     TargetType = "user"
	TargetCriteria TargetType = "criteria"
)

// Target describes which users a notification should reach. GroupID is set
// only for TargetGroup, UserID only for TargetUser. TargetCriteria is
// accepted but has no resolution semantics; it resolves to no recipients.
type Target struct {
	Type    TargetType `json:"type"`
	GroupID string     `json:"groupId,omitempty"`
	UserID  string     `json:"userId,omitempty"`
}

// Valid reports whether the descriptor is one of the known shapes.
func (t Target) Valid() bool {
	switch t.Type {
	case TargetGeneral, TargetCriteria:
		return true
	case TargetGroup:
		return t.GroupID != ""
	case TargetUser:
		return t.UserID != ""
	default:
		return false
	}
}

// --------------------------------------------------------------------------
// Scheduled notification
// --------------------------------------------------------------------------

// Status is the scheduled-notification lifecycle state. Entries are created
// pending, claimed into processing by exactly one run, and finalized sent.
// There is no cancellation and no edit-after-create.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusSent       Status = "sent"
)

// Scheduled is a persisted notification awaiting (or past) its send time.
// SentAt is set exactly when Status is StatusSent. SuccessCount and
// FailureCount record the aggregate dispatch outcome at finalization; they
// stay nil for entries that resolved to zero recipients.
type Scheduled struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Body          string `json:"body"`
	Link          string `json:"link,omitempty"`
	ScheduledTime int64  `json:"scheduledTime"` // epoch ms
	Target        Target `json:"target"`
	Status        Status `json:"status"`
	CreatedAt     int64  `json:"createdAt"` // epoch ms
	SentAt        *int64 `json:"sentAt,omitempty"`
	SuccessCount  *int   `json:"successCount,omitempty"`
	FailureCount  *int   `json:"failureCount,omitempty"`
}

// --------------------------------------------------------------------------
// Delivery outcome
// --------------------------------------------------------------------------

// Outcome is the aggregate result of one dispatch. Counts are totals across
// both transports; per-recipient results are never retained.
type Outcome struct {
	Success int `json:"successCount"`
	Failure int `json:"failureCount"`
}

func (o Outcome) add(other Outcome) Outcome {
	return Outcome{Success: o.Success + other.Success, Failure: o.Failure + other.Failure}
}
