package translate

import (
	"context"
	"strings"

	"github.com/spec-kit/lighthouse-migrator/internal/events"
	"github.com/spec-kit/lighthouse-migrator/pkg/util"
)

// UserResolver maps legacy user identifiers and display names to target
// usernames. The id map must be supplied; there is no sensible default.
type UserResolver struct {
	userMap    map[int64]string
	dispatcher events.Dispatcher
}

// NewUserResolver constructs the resolver. A nil user map is a fatal
// configuration error. The dispatcher is optional; when present it receives
// an event for every lookup of an unmapped id.
func NewUserResolver(userMap map[int64]string, dispatcher events.Dispatcher) (*UserResolver, error) {
	if userMap == nil {
		return nil, util.NewConfigError("user map is required", nil)
	}
	return &UserResolver{userMap: userMap, dispatcher: dispatcher}, nil
}

// ResolveName normalizes a display name into a username: lower-cased, with
// spaces replaced by dots.
func (r *UserResolver) ResolveName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, " ", "."))
}

// ResolveID maps a legacy numeric id to a username. A nil id means no user
// is set and resolves to the empty string. An unmapped id also resolves to
// the empty string, but additionally publishes a user_unmapped event so the
// two cases stay distinguishable in the run log.
func (r *UserResolver) ResolveID(id *int64) string {
	if id == nil {
		return ""
	}
	username, ok := r.userMap[*id]
	if !ok && r.dispatcher != nil {
		r.dispatcher.Publish(context.Background(), events.NewEvent(
			events.EventUserUnmapped,
			events.UserUnmappedPayload{LegacyID: *id},
		))
	}
	return username
}
