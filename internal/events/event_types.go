package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventIssueConverted         EventType = "issue_converted"
	EventAttachmentUploaded     EventType = "attachment_uploaded"
	EventAttachmentUploadFailed EventType = "attachment_upload_failed"
	EventUserUnmapped           EventType = "user_unmapped"
	EventStateUnrecognized      EventType = "state_unrecognized"
	EventRunCompleted           EventType = "run_completed"
)

// Event represents a migration event emitted while a run progresses.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// NewEvent stamps an event with an id and the current time.
func NewEvent(eventType EventType, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// IssueConvertedPayload payload.
type IssueConvertedPayload struct {
	ExternalID  int `json:"external_id"`
	Comments    int `json:"comments"`
	History     int `json:"history"`
	Attachments int `json:"attachments"`
}

// AttachmentUploadedPayload payload.
type AttachmentUploadedPayload struct {
	TicketNumber int    `json:"ticket_number"`
	Name         string `json:"name"`
	URI          string `json:"uri"`
}

// AttachmentUploadFailedPayload payload.
type AttachmentUploadFailedPayload struct {
	TicketNumber int    `json:"ticket_number"`
	Filename     string `json:"filename"`
	Reason       string `json:"reason"`
}

// UserUnmappedPayload payload.
type UserUnmappedPayload struct {
	LegacyID int64 `json:"legacy_id"`
}

// StateUnrecognizedPayload payload.
type StateUnrecognizedPayload struct {
	TicketNumber int    `json:"ticket_number"`
	State        string `json:"state"`
}

// RunCompletedPayload payload.
type RunCompletedPayload struct {
	Issues     int    `json:"issues"`
	ResultPath string `json:"result_path"`
}
