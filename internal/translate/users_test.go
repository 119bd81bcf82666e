package translate

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lighthouse-migrator/internal/events"
	"github.com/spec-kit/lighthouse-migrator/pkg/util"
)

// recordingDispatcher collects published events for assertions.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) ofType(eventType events.EventType) []events.Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	var matched []events.Event
	for _, event := range d.events {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func int64Ptr(v int64) *int64 { return &v }

func TestNewUserResolverRequiresMap(t *testing.T) {
	_, err := NewUserResolver(nil, nil)
	require.Error(t, err)
	assert.Equal(t, "CONFIG_INVALID", util.ErrorCode(err))
}

func TestResolveNameNormalizes(t *testing.T) {
	resolver, err := NewUserResolver(map[int64]string{}, nil)
	require.NoError(t, err)

	assert.Equal(t, "john.smith", resolver.ResolveName("John Smith"))
	assert.Equal(t, "ada", resolver.ResolveName("Ada"))
	assert.Equal(t, "", resolver.ResolveName(""))
}

func TestResolveIDMapped(t *testing.T) {
	resolver, err := NewUserResolver(map[int64]string{42: "grace.hopper"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "grace.hopper", resolver.ResolveID(int64Ptr(42)))
}

func TestResolveIDNilMeansNoUser(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	resolver, err := NewUserResolver(map[int64]string{}, dispatcher)
	require.NoError(t, err)

	assert.Equal(t, "", resolver.ResolveID(nil))
	assert.Empty(t, dispatcher.ofType(events.EventUserUnmapped))
}

func TestResolveIDUnmappedPublishesEvent(t *testing.T) {
	dispatcher := &recordingDispatcher{}
	resolver, err := NewUserResolver(map[int64]string{}, dispatcher)
	require.NoError(t, err)

	assert.Equal(t, "", resolver.ResolveID(int64Ptr(99)))

	unmapped := dispatcher.ofType(events.EventUserUnmapped)
	require.Len(t, unmapped, 1)
	payload, ok := unmapped[0].Payload.(events.UserUnmappedPayload)
	require.True(t, ok)
	assert.Equal(t, int64(99), payload.LegacyID)
}
