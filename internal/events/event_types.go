package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/blog-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered EventType = "user_registered"
	EventBlogCreated    EventType = "blog_created"
	EventBlogUpdated    EventType = "blog_updated"
	EventBlogDeleted    EventType = "blog_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string           `json:"id"`
	Type      EventType        `json:"type"`
	Actor     domain.SubjectID `json:"actor"`
	Timestamp time.Time        `json:"timestamp"`
	Payload   interface{}      `json:"payload"`
}

// New stamps an event with a fresh ID and the current time.
func New(eventType EventType, actor domain.SubjectID, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
}

// BlogPayload identifies the blog an event refers to.
type BlogPayload struct {
	BlogID int64  `json:"blog_id"`
	Title  string `json:"title,omitempty"`
}
