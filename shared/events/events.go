package events

import "time"

// Event types
const (
	UserCreated = "user.created"
	UserDeleted = "user.deleted"
)

// UserEventsStream is the default stream user notifications are published to.
const UserEventsStream = "user.events"

// Event is the envelope written to the stream under the "event" field.
type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// UserEmailEvent is the payload of both user.created and user.deleted.
type UserEmailEvent struct {
	Email string `json:"email"`
}
