package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered  EventType = "user_registered"
	EventPostPublished   EventType = "post_published"
	EventPostUnpublished EventType = "post_unpublished"
	EventPostDeleted     EventType = "post_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	PostID    string      `json:"post_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// PostPublishedPayload payload.
type PostPublishedPayload struct {
	Title string `json:"title"`
}
