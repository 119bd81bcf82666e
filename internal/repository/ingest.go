package repository

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spec-kit/lighthouse-migrator/internal/domain"
)

// parseTicket validates and converts one raw ticket object into the typed
// schema. Only the ticket number is strictly required; everything else
// degrades to its zero value.
func parseTicket(raw map[string]any) (domain.TicketRecord, error) {
	number := asInt(raw["number"])
	if number <= 0 {
		return domain.TicketRecord{}, errors.New("ticket number is required")
	}

	record := domain.TicketRecord{
		Number:         number,
		Title:          asString(raw["title"]),
		Body:           asString(raw["body"]),
		State:          asString(raw["state"]),
		Importance:     asInt(raw["importance"]),
		ImportanceName: asString(raw["importance_name"]),
		CreatorID:      asID(raw["creator_id"]),
		AssignedUserID: asID(raw["assigned_user_id"]),
		Tag:            asString(raw["tag"]),
		CreatedAt:      asString(raw["created_at"]),
		UpdatedAt:      asString(raw["updated_at"]),
	}

	if rawVersions, ok := raw["versions"].([]any); ok {
		record.Versions = make([]domain.Version, 0, len(rawVersions))
		for i, entry := range rawVersions {
			fields, ok := entry.(map[string]any)
			if !ok {
				return domain.TicketRecord{}, fmt.Errorf("version %d of ticket %d is not an object", i, number)
			}
			record.Versions = append(record.Versions, parseVersion(fields))
		}
	}

	if rawAttachments, ok := raw["attachments"].([]any); ok {
		record.Attachments = make([]domain.AttachmentRef, 0, len(rawAttachments))
		for i, entry := range rawAttachments {
			ref, err := parseAttachment(entry)
			if err != nil {
				return domain.TicketRecord{}, fmt.Errorf("attachment %d of ticket %d: %w", i, number, err)
			}
			record.Attachments = append(record.Attachments, ref)
		}
	}

	return record, nil
}

func parseVersion(fields map[string]any) domain.Version {
	diffable := map[string]any{}
	if raw, ok := fields["diffable_attributes"].(map[string]any); ok {
		diffable = raw
	}
	return domain.Version{
		Sequence:           asInt(fields["version"]),
		UserName:           asString(fields["user_name"]),
		CreatedAt:          asString(fields["created_at"]),
		Body:               asString(fields["body"]),
		State:              asString(fields["state"]),
		AssignedUserID:     asID(fields["assigned_user_id"]),
		DiffableAttributes: diffable,
		Fields:             fields,
	}
}

// parseAttachment unwraps the legacy export's wrapper key, which is "image"
// for inline images and "attachment" for everything else.
func parseAttachment(entry any) (domain.AttachmentRef, error) {
	wrapper, ok := entry.(map[string]any)
	if !ok {
		return domain.AttachmentRef{}, errors.New("not an object")
	}

	inner, ok := wrapper["image"].(map[string]any)
	if !ok {
		inner, ok = wrapper["attachment"].(map[string]any)
	}
	if !ok {
		return domain.AttachmentRef{}, errors.New("missing image or attachment wrapper")
	}

	filename := asString(inner["filename"])
	if filename == "" {
		return domain.AttachmentRef{}, errors.New("filename is required")
	}

	return domain.AttachmentRef{
		Filename:    filename,
		ContentType: asString(inner["content_type"]),
		UploaderID:  asID(inner["uploader_id"]),
		CreatedAt:   asString(inner["created_at"]),
		SourceURL:   asString(inner["url"]),
	}, nil
}

func asString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func asInt(value any) int {
	switch v := value.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}

func asID(value any) *int64 {
	switch v := value.(type) {
	case float64:
		id := int64(v)
		return &id
	case int:
		id := int64(v)
		return &id
	case string:
		if id, err := strconv.ParseInt(v, 10, 64); err == nil {
			return &id
		}
	}
	return nil
}
