package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherPublishesToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()

	var got []EventType
	d.Subscribe(EventBlogCreated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})
	d.Subscribe(EventBlogCreated, func(_ context.Context, e Event) error {
		return errors.New("webhook down")
	})
	d.Subscribe(EventBlogCreated, func(_ context.Context, e Event) error {
		got = append(got, e.Type)
		return nil
	})

	err := d.Publish(context.Background(), New(EventBlogCreated, "U1", BlogPayload{BlogID: 1}))
	assert.ErrorContains(t, err, "webhook down")
	assert.Equal(t, []EventType{EventBlogCreated, EventBlogCreated}, got)

	assert.NoError(t, d.Publish(context.Background(), New(EventBlogDeleted, "U1", nil)))
}

func TestNewStampsEvent(t *testing.T) {
	e := New(EventUserRegistered, "U1", UserRegisteredPayload{UserID: "U1"})
	assert.NotEmpty(t, e.ID)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, EventUserRegistered, e.Type)
}
