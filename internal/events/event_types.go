package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserLoggedIn  EventType = "user_logged_in"
	EventLoginFailed   EventType = "login_failed"
	EventUserLoggedOut EventType = "user_logged_out"
	EventRecordCreated EventType = "record_created"
	EventRecordUpdated EventType = "record_updated"
	EventRecordDeleted EventType = "record_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// New builds an event with a fresh id and timestamp.
func New(eventType EventType, userID string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// LoginFailedPayload carries the server-side reason for a rejected login.
// The reason never reaches the client; it exists for audit logging only.
type LoginFailedPayload struct {
	Email  string `json:"email"`
	Reason string `json:"reason"`
}

// RecordMutationPayload describes a change to a medical record.
type RecordMutationPayload struct {
	RecordID string `json:"record_id"`
}
