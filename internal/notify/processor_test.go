package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oshri1997/chaver-mechuyvut-dashboard/internal/directory"
)

type fakeScheduleStore struct {
	due       []Scheduled
	claimErr  error
	markErr   error
	finalized map[string]*Outcome // id → outcome passed to MarkSent
	sentAt    map[string]int64
}

func (f *fakeScheduleStore) ClaimDue(ctx context.Context) ([]Scheduled, error) {
	if f.claimErr != nil {
		return nil, f.claimErr
	}
	due := f.due
	f.due = nil // claimed entries are not due again
	return due, nil
}

func (f *fakeScheduleStore) MarkSent(ctx context.Context, id string, sentAt int64, outcome *Outcome) error {
	if f.markErr != nil {
		return f.markErr
	}
	if f.finalized == nil {
		f.finalized = map[string]*Outcome{}
		f.sentAt = map[string]int64{}
	}
	f.finalized[id] = outcome
	f.sentAt[id] = sentAt
	return nil
}

type fakeDirectory struct {
	users []directory.User
	group []directory.Group
	err   error
	loads int
}

func (f *fakeDirectory) Snapshot(ctx context.Context) ([]directory.User, []directory.Group, error) {
	f.loads++
	return f.users, f.group, f.err
}

type fakeSender struct {
	calls  int
	tokens [][]string
	out    Outcome
}

func (f *fakeSender) Send(ctx context.Context, tokens []string, title, body string, data map[string]string) Outcome {
	f.calls++
	f.tokens = append(f.tokens, tokens)
	return f.out
}

func TestProcessorRunDispatchesAndFinalizes(t *testing.T) {
	// Group G: one member with a bridge-format token, one without any token.
	dir := &fakeDirectory{
		users: []directory.User{
			{ID: "u1", PushToken: "ExponentPushToken[aaa]"},
			{ID: "u2"},
		},
		group: []directory.Group{{ID: "G", MemberIDs: []string{"u1", "u2"}}},
	}
	store := &fakeScheduleStore{due: []Scheduled{{
		ID: "n1", Title: "A", Body: "B", Link: "/g",
		Target: Target{Type: TargetGroup, GroupID: "G"},
	}}}
	sender := &fakeSender{out: Outcome{Success: 1}}
	p := NewProcessor(store, dir, sender, discardLogger())

	processed, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	require.Equal(t, 1, sender.calls)
	assert.Equal(t, []string{"ExponentPushToken[aaa]"}, sender.tokens[0])

	require.Contains(t, store.finalized, "n1")
	require.NotNil(t, store.finalized["n1"])
	assert.Equal(t, Outcome{Success: 1}, *store.finalized["n1"])
	assert.NotZero(t, store.sentAt["n1"])

	// A second run finds nothing due.
	processed, err = p.Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, processed)
	assert.Equal(t, 1, sender.calls)
}

func TestProcessorRunFinalizesZeroRecipientEntries(t *testing.T) {
	dir := &fakeDirectory{}
	store := &fakeScheduleStore{due: []Scheduled{{
		ID: "n1", Title: "A", Body: "B",
		Target: Target{Type: TargetGroup, GroupID: "gone"},
	}}}
	sender := &fakeSender{}
	p := NewProcessor(store, dir, sender, discardLogger())

	processed, err := p.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, processed)

	// No dispatch happened, but the entry is still marked sent with no
	// recorded outcome.
	assert.Zero(t, sender.calls)
	require.Contains(t, store.finalized, "n1")
	assert.Nil(t, store.finalized["n1"])
}

func TestProcessorRunResolvesAtProcessingTime(t *testing.T) {
	// The user registered a token after the notification was scheduled;
	// the fresh snapshot must pick it up.
	dir := &fakeDirectory{
		users: []directory.User{{ID: "u1", PushToken: "late-fcm-token"}},
	}
	store := &fakeScheduleStore{due: []Scheduled{{
		ID: "n1", Title: "A", Body: "B",
		Target: Target{Type: TargetUser, UserID: "u1"},
	}}}
	sender := &fakeSender{out: Outcome{Success: 1}}
	p := NewProcessor(store, dir, sender, discardLogger())

	_, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sender.calls)
	assert.Equal(t, []string{"late-fcm-token"}, sender.tokens[0])
	assert.Equal(t, 1, dir.loads, "one snapshot per run")
}

func TestProcessorRunSnapshotFailureAbortsBeforeClaiming(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("db down")}
	store := &fakeScheduleStore{due: []Scheduled{{ID: "n1", Target: Target{Type: TargetGeneral}}}}
	p := NewProcessor(store, dir, &fakeSender{}, discardLogger())

	processed, err := p.Run(context.Background())
	assert.Error(t, err)
	assert.Zero(t, processed)
	assert.Len(t, store.due, 1, "nothing was claimed")
}

func TestProcessorRunMarkFailureAborts(t *testing.T) {
	dir := &fakeDirectory{}
	store := &fakeScheduleStore{
		due: []Scheduled{
			{ID: "n1", Target: Target{Type: TargetCriteria}},
			{ID: "n2", Target: Target{Type: TargetCriteria}},
		},
		markErr: errors.New("write failed"),
	}
	p := NewProcessor(store, dir, &fakeSender{}, discardLogger())

	processed, err := p.Run(context.Background())
	assert.Error(t, err)
	assert.Zero(t, processed)
}
