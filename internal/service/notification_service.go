package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/blog-service/internal/config"
	"github.com/spec-kit/blog-service/internal/events"
	"github.com/spec-kit/blog-service/internal/mail"
)

// NotificationService handles emitting notifications for domain events.
// Password-reset codes are mailed directly by the auth service because that
// delivery is awaited; everything here is best-effort.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     mail.Mailer
	logger     *zap.Logger
	cfg        config.MailConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer mail.Mailer, logger *zap.Logger, cfg config.MailConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
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
	n.dispatcher.Subscribe(events.EventPostPublished, n.handlePostPublished)
	n.dispatcher.Subscribe(events.EventPostUnpublished, n.handlePostUnpublished)
	n.dispatcher.Subscribe(events.EventPostDeleted, n.handlePostDeleted)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	n.logger.Info("UserRegistered", zap.String("user_id", event.UserID), zap.Any("payload", event.Payload))
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok || n.cfg.SMTPHost == "" {
		return nil
	}
	if err := n.mailer.Send(ctx, payload.Email, "Welcome", "Your account has been created."); err != nil {
		n.logger.Warn("welcome mail failed", zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handlePostPublished(ctx context.Context, event events.Event) error {
	n.logger.Info("PostPublished", zap.String("post_id", event.PostID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handlePostUnpublished(ctx context.Context, event events.Event) error {
	n.logger.Info("PostUnpublished", zap.String("post_id", event.PostID))
	return nil
}

func (n *NotificationService) handlePostDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("PostDeleted", zap.String("post_id", event.PostID))
	return nil
}
