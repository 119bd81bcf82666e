package translate

import (
	"github.com/spec-kit/lighthouse-migrator/internal/domain"
)

// StatusMapping pairs a Jira status name with its numeric workflow code.
type StatusMapping struct {
	Name string
	Code string
}

// ResolutionMapping pairs a Jira resolution name with its numeric code, used
// for synthetic resolution history items.
type ResolutionMapping struct {
	Name string
	Code int
}

// UnresolvedCode is the from-side code of every synthetic resolution item.
const UnresolvedCode = -1

var statusByState = map[string]StatusMapping{
	"new":      {Name: "Open", Code: "1"},
	"open":     {Name: "In Progress", Code: "3"},
	"resolved": {Name: "Closed", Code: "6"},
	"invalid":  {Name: "Closed", Code: "6"},
	"hold":     {Name: "Closed", Code: "6"},
}

var resolutionByState = map[string]ResolutionMapping{
	"resolved": {Name: "Fixed", Code: 1},
	"invalid":  {Name: "Invalid", Code: 6},
	"hold":     {Name: "Hold", Code: 7},
}

// PriorityStatusMapper maps legacy importance and lifecycle-state values to
// the target priority, status, and resolution vocabularies.
type PriorityStatusMapper struct {
	priorityNames map[string]string
}

// NewPriorityStatusMapper constructs the mapper. The overrides table replaces
// the default importance-name mapping when non-nil.
func NewPriorityStatusMapper(overrides map[string]string) *PriorityStatusMapper {
	names := overrides
	if names == nil {
		names = map[string]string{
			"High":   "Major",
			"Medium": "Minor",
			"Low":    "Trivial",
		}
	}
	return &PriorityStatusMapper{priorityNames: names}
}

// Priority maps a ticket's importance to a Jira priority. An explicit
// importance name wins over the numeric score.
func (m *PriorityStatusMapper) Priority(record domain.TicketRecord) string {
	if record.ImportanceName != "" {
		return m.priorityNames[record.ImportanceName]
	}
	return bucketImportance(record.Importance)
}

// Buckets are inclusive on both ends; anything outside falls to Critical.
func bucketImportance(score int) string {
	switch {
	case score >= 0 && score <= 5:
		return "Trivial"
	case score >= 6 && score <= 10:
		return "Minor"
	case score >= 11 && score <= 20:
		return "Major"
	default:
		return "Critical"
	}
}

// Status maps a legacy lifecycle state onto the target status vocabulary.
// The second result is false for unrecognized states, in which case the
// mapping is the zero value rather than a silent guess.
func (m *PriorityStatusMapper) Status(state string) (StatusMapping, bool) {
	mapping, ok := statusByState[state]
	return mapping, ok
}

// Resolution returns the resolution for terminal states, nil for the rest.
func (m *PriorityStatusMapper) Resolution(state string) *string {
	mapping, ok := resolutionByState[state]
	if !ok {
		return nil
	}
	name := mapping.Name
	return &name
}

// ResolutionForState exposes the name/code pair behind Resolution, used when
// synthesizing resolution history items.
func (m *PriorityStatusMapper) ResolutionForState(state string) (ResolutionMapping, bool) {
	mapping, ok := resolutionByState[state]
	return mapping, ok
}
