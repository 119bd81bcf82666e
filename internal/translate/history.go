package translate

import (
	"context"
	"fmt"
	"sort"

	"github.com/spec-kit/lighthouse-migrator/internal/domain"
	"github.com/spec-kit/lighthouse-migrator/internal/events"
)

const historyFieldType = "jira"

// itemTransform describes how one diffable attribute maps onto history
// items: zero (filtered), one, or two per changed field.
type itemTransform struct {
	drop    bool
	resolve func(d *VersionHistoryDiffer, ticket domain.TicketRecord, version domain.Version, prior any) []domain.HistoryItem
}

// transforms keys each recognized attribute to its translation.
// Attributes absent from the table pass through verbatim.
var transforms = map[string]itemTransform{
	"assigned_user": {resolve: (*VersionHistoryDiffer).assigneeItems},
	"state":         {resolve: (*VersionHistoryDiffer).stateItems},
	"milestone":     {drop: true},
	"tag":           {drop: true},
}

// VersionHistoryDiffer reconstructs an ordered audit trail from a ticket's
// version snapshots.
type VersionHistoryDiffer struct {
	users      *UserResolver
	mapper     *PriorityStatusMapper
	dispatcher events.Dispatcher
}

// NewVersionHistoryDiffer constructs the differ.
func NewVersionHistoryDiffer(users *UserResolver, mapper *PriorityStatusMapper, dispatcher events.Dispatcher) *VersionHistoryDiffer {
	return &VersionHistoryDiffer{users: users, mapper: mapper, dispatcher: dispatcher}
}

// History produces the surviving history entries in version order. A version
// without diffable attributes, or whose attributes all filter out, yields no
// entry.
func (d *VersionHistoryDiffer) History(ticket domain.TicketRecord) []domain.HistoryEntry {
	entries := make([]domain.HistoryEntry, 0)
	for _, version := range ticket.Versions {
		if !version.HasChanges() {
			continue
		}
		items := make([]domain.HistoryItem, 0)
		for _, field := range sortedFields(version.DiffableAttributes) {
			prior := version.DiffableAttributes[field]
			transform, known := transforms[field]
			switch {
			case !known:
				items = append(items, d.verbatimItem(version, field, prior))
			case transform.drop:
				continue
			default:
				items = append(items, transform.resolve(d, ticket, version, prior)...)
			}
		}
		if len(items) == 0 {
			continue
		}
		entries = append(entries, domain.HistoryEntry{
			Author:  d.users.ResolveName(version.UserName),
			Created: version.CreatedAt,
			Items:   items,
		})
	}
	return entries
}

func (d *VersionHistoryDiffer) assigneeItems(_ domain.TicketRecord, version domain.Version, prior any) []domain.HistoryItem {
	from := d.users.ResolveID(asUserID(prior))
	to := d.users.ResolveID(version.AssignedUserID)
	return []domain.HistoryItem{{
		FieldType:  historyFieldType,
		Field:      "assignee",
		From:       from,
		FromString: from,
		To:         to,
		ToString:   to,
	}}
}

func (d *VersionHistoryDiffer) stateItems(ticket domain.TicketRecord, version domain.Version, prior any) []domain.HistoryItem {
	oldState := fmt.Sprintf("%v", prior)
	oldStatus := d.statusFor(ticket, oldState)
	newStatus := d.statusFor(ticket, version.State)

	items := []domain.HistoryItem{{
		FieldType:  historyFieldType,
		Field:      "status",
		From:       oldStatus.Code,
		FromString: oldStatus.Name,
		To:         newStatus.Code,
		ToString:   newStatus.Name,
	}}

	if resolution, ok := d.mapper.ResolutionForState(version.State); ok {
		items = append(items, domain.HistoryItem{
			FieldType:  historyFieldType,
			Field:      "resolution",
			From:       UnresolvedCode,
			FromString: "Unresolved",
			To:         resolution.Code,
			ToString:   resolution.Name,
		})
	}
	return items
}

func (d *VersionHistoryDiffer) verbatimItem(version domain.Version, field string, prior any) domain.HistoryItem {
	current := version.Field(field)
	return domain.HistoryItem{
		FieldType:  historyFieldType,
		Field:      field,
		From:       prior,
		FromString: prior,
		To:         current,
		ToString:   current,
	}
}

func (d *VersionHistoryDiffer) statusFor(ticket domain.TicketRecord, state string) StatusMapping {
	mapping, ok := d.mapper.Status(state)
	if !ok && d.dispatcher != nil {
		d.dispatcher.Publish(context.Background(), events.NewEvent(
			events.EventStateUnrecognized,
			events.StateUnrecognizedPayload{TicketNumber: ticket.Number, State: state},
		))
	}
	return mapping
}

// sortedFields keeps item order deterministic within one entry.
func sortedFields(attributes map[string]any) []string {
	fields := make([]string, 0, len(attributes))
	for field := range attributes {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	return fields
}
