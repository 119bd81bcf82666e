package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lighthouse-migrator/internal/domain"
	"github.com/spec-kit/lighthouse-migrator/internal/events"
)

func newTestDiffer(t *testing.T, dispatcher events.Dispatcher) *VersionHistoryDiffer {
	t.Helper()
	resolver, err := NewUserResolver(map[int64]string{
		1: "alice",
		2: "bob",
	}, dispatcher)
	require.NoError(t, err)
	return NewVersionHistoryDiffer(resolver, NewPriorityStatusMapper(nil), dispatcher)
}

func TestHistoryAssigneeChange(t *testing.T) {
	differ := newTestDiffer(t, nil)

	ticket := domain.TicketRecord{Number: 7, Versions: []domain.Version{{
		Sequence:           2,
		UserName:           "Carol Jones",
		CreatedAt:          "2011-04-01T10:00:00Z",
		AssignedUserID:     int64Ptr(2),
		DiffableAttributes: map[string]any{"assigned_user": float64(1)},
	}}}

	entries := differ.History(ticket)
	require.Len(t, entries, 1)
	assert.Equal(t, "carol.jones", entries[0].Author)
	assert.Equal(t, "2011-04-01T10:00:00Z", entries[0].Created)

	require.Len(t, entries[0].Items, 1)
	item := entries[0].Items[0]
	assert.Equal(t, "jira", item.FieldType)
	assert.Equal(t, "assignee", item.Field)
	assert.Equal(t, "alice", item.From)
	assert.Equal(t, "alice", item.FromString)
	assert.Equal(t, "bob", item.To)
	assert.Equal(t, "bob", item.ToString)
}

func TestHistoryStateChangeSynthesizesResolution(t *testing.T) {
	differ := newTestDiffer(t, nil)

	ticket := domain.TicketRecord{Number: 7, Versions: []domain.Version{{
		Sequence:           3,
		UserName:           "Alice",
		State:              "resolved",
		DiffableAttributes: map[string]any{"state": "open"},
	}}}

	entries := differ.History(ticket)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Items, 2)

	status := entries[0].Items[0]
	assert.Equal(t, "status", status.Field)
	assert.Equal(t, "3", status.From)
	assert.Equal(t, "In Progress", status.FromString)
	assert.Equal(t, "6", status.To)
	assert.Equal(t, "Closed", status.ToString)

	resolution := entries[0].Items[1]
	assert.Equal(t, "resolution", resolution.Field)
	assert.Equal(t, -1, resolution.From)
	assert.Equal(t, "Unresolved", resolution.FromString)
	assert.Equal(t, 1, resolution.To)
	assert.Equal(t, "Fixed", resolution.ToString)
}

func TestHistoryStateChangeToOpenHasNoResolution(t *testing.T) {
	differ := newTestDiffer(t, nil)

	ticket := domain.TicketRecord{Number: 7, Versions: []domain.Version{{
		Sequence:           2,
		State:              "open",
		DiffableAttributes: map[string]any{"state": "new"},
	}}}

	entries := differ.History(ticket)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Items, 1)
	assert.Equal(t, "status", entries[0].Items[0].Field)
}

func TestHistoryMilestoneAndTagFiltered(t *testing.T) {
	differ := newTestDiffer(t, nil)

	ticket := domain.TicketRecord{Number: 7, Versions: []domain.Version{{
		Sequence: 2,
		DiffableAttributes: map[string]any{
			"milestone": float64(3),
			"tag":       "old-tag",
		},
	}}}

	assert.Empty(t, differ.History(ticket))
}

func TestHistoryVerbatimField(t *testing.T) {
	differ := newTestDiffer(t, nil)

	ticket := domain.TicketRecord{Number: 7, Versions: []domain.Version{{
		Sequence:           2,
		DiffableAttributes: map[string]any{"title": "old title"},
		Fields:             map[string]any{"title": "new title"},
	}}}

	entries := differ.History(ticket)
	require.Len(t, entries, 1)
	require.Len(t, entries[0].Items, 1)

	item := entries[0].Items[0]
	assert.Equal(t, "title", item.Field)
	assert.Equal(t, "old title", item.From)
	assert.Equal(t, "new title", item.To)
}

func TestHistoryPreservesVersionOrder(t *testing.T) {
	differ := newTestDiffer(t, nil)

	ticket := domain.TicketRecord{Number: 7, Versions: []domain.Version{
		{
			Sequence:           2,
			CreatedAt:          "2011-01-01T00:00:00Z",
			State:              "open",
			DiffableAttributes: map[string]any{"state": "new"},
		},
		{
			Sequence:  3,
			CreatedAt: "2011-01-02T00:00:00Z",
			Body:      "just a comment",
		},
		{
			Sequence:           4,
			CreatedAt:          "2011-01-03T00:00:00Z",
			AssignedUserID:     int64Ptr(1),
			DiffableAttributes: map[string]any{"assigned_user": nil},
		},
	}}

	entries := differ.History(ticket)
	require.Len(t, entries, 2)
	assert.Equal(t, "2011-01-01T00:00:00Z", entries[0].Created)
	assert.Equal(t, "2011-01-03T00:00:00Z", entries[1].Created)
}

func TestHistoryUnrecognizedStatePublishesEvent(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	differ := newTestDiffer(t, dispatcher)

	ticket := domain.TicketRecord{Number: 9, Versions: []domain.Version{{
		Sequence:           2,
		State:              "wontfix",
		DiffableAttributes: map[string]any{"state": "open"},
	}}}

	entries := differ.History(ticket)
	require.Len(t, entries, 1)

	unknown := dispatcher.ofType(events.EventStateUnrecognized)
	require.Len(t, unknown, 1)
	payload, ok := unknown[0].Payload.(events.StateUnrecognizedPayload)
	require.True(t, ok)
	assert.Equal(t, 9, payload.TicketNumber)
	assert.Equal(t, "wontfix", payload.State)
}
