package worker

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/service"
)

var (
	// ErrQueueFull is returned when the worker cannot accept another event.
	ErrQueueFull = errors.New("notification queue full")
	// ErrStopped is returned for events published after Stop.
	ErrStopped = errors.New("notification worker stopped")
)

const defaultQueueSize = 256

// NotificationWorker delivers events to subscribed handlers on a background
// goroutine so that request handling never waits on notifications. It
// satisfies events.Dispatcher and can be handed to the services directly.
type NotificationWorker struct {
	inner  events.Dispatcher
	logger *zap.Logger

	mu      sync.RWMutex
	stopped bool
	queue   chan queuedEvent
	done    chan struct{}
}

type queuedEvent struct {
	ctx   context.Context
	event events.Event
}

// StartNotificationWorker registers notification handlers on inner and
// starts delivering queued events.
func StartNotificationWorker(notificationService *service.NotificationService, inner events.Dispatcher, queueSize int, logger *zap.Logger) *NotificationWorker {
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if notificationService != nil {
		notificationService.RegisterHandlers()
	}

	w := &NotificationWorker{
		inner:  inner,
		logger: logger,
		queue:  make(chan queuedEvent, queueSize),
		done:   make(chan struct{}),
	}
	go w.run()
	return w
}

// Publish queues the event. The request context's values are kept but its
// cancellation is not, since delivery outlives the request.
func (w *NotificationWorker) Publish(ctx context.Context, event events.Event) error {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.stopped {
		return ErrStopped
	}

	select {
	case w.queue <- queuedEvent{ctx: context.WithoutCancel(ctx), event: event}:
		return nil
	default:
		w.logger.Warn("notification dropped",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
		return ErrQueueFull
	}
}

// Subscribe registers a handler on the wrapped dispatcher.
func (w *NotificationWorker) Subscribe(eventType events.EventType, handler events.EventHandler) {
	w.inner.Subscribe(eventType, handler)
}

// Stop refuses new events and waits until queued ones are delivered or ctx
// ends.
func (w *NotificationWorker) Stop(ctx context.Context) error {
	w.mu.Lock()
	if !w.stopped {
		w.stopped = true
		close(w.queue)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *NotificationWorker) run() {
	defer close(w.done)
	for item := range w.queue {
		if err := w.inner.Publish(item.ctx, item.event); err != nil {
			w.logger.Warn("notification handlers failed",
				zap.String("event_id", item.event.ID),
				zap.String("event_type", string(item.event.Type)),
				zap.Error(err))
		}
	}
}
