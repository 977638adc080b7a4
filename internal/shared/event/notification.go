package event

import (
	"encoding/json"
	"time"
)

const NotificationDestination string = "notification.events"
const NotificationDeadLetterDestination string = "notification.events.dead-letter"
const NotificationDestinationConsumerNotification string = "notification_events_notification"

// HeaderCorrelationID carries the correlation id across services.
const HeaderCorrelationID string = "cID"

// NotificationActor is the user who triggered the event.
type NotificationActor struct {
	UserID             string `json:"user_id"`
	IdentityID         string `json:"identity_id"`
	Role               string `json:"role"`
	RoleID             string `json:"role_id"`
	OrganisationID     string `json:"organisation_id,omitempty"`
	OrganisationUnitID string `json:"organisation_unit_id,omitempty"`
}

// NotificationMessage is the envelope published by the platform services.
// Payload is decoded by the engine according to Type.
type NotificationMessage struct {
	ID         string            `json:"id"`
	Type       string            `json:"type"`
	Actor      NotificationActor `json:"actor"`
	Payload    json.RawMessage   `json:"payload"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// NotificationDeadLetter wraps an event that will never succeed.
type NotificationDeadLetter struct {
	Reason   string          `json:"reason"`
	Attempt  int             `json:"attempt"`
	Original json.RawMessage `json:"original"`
	FailedAt time.Time       `json:"failed_at"`
}
