package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventBlogCreated, n.handleBlogEvent)
	n.dispatcher.Subscribe(events.EventBlogUpdated, n.handleBlogEvent)
	n.dispatcher.Subscribe(events.EventBlogDeleted, n.handleBlogEvent)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.String("actor", string(event.Actor)), zap.Any("payload", event.Payload))
	n.logEmailNotification(ctx, event)
	return nil
}

func (n *NotificationService) handleBlogEvent(ctx context.Context, event events.Event) error {
	n.logger.Info("BlogChanged",
		zap.String("event_type", string(event.Type)),
		zap.String("actor", string(event.Actor)),
		zap.Any("payload", event.Payload))
	n.logWebhookNotification(ctx, event)
	return nil
}

// logEmailNotification records the email that would be sent. Delivery is not
// wired; the log line is the whole effect.
func (n *NotificationService) logEmailNotification(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		return
	}
	n.logger.Debug("email notification",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}

// logWebhookNotification records the webhook call that would be made.
func (n *NotificationService) logWebhookNotification(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("webhook notification",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)))
}
