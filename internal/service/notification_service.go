package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/store-service/internal/events"
)

// NotificationService delivers email notifications for domain events.
// Delivery failures are logged and never propagated: by the time a
// notification is emitted the primary operation has already succeeded.
type NotificationService struct {
	dispatcher events.Dispatcher
	mailer     Mailer
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, mailer Mailer, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		mailer:     mailer,
		logger:     logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventPasswordResetCompleted, n.handlePasswordResetCompleted)
	n.dispatcher.Subscribe(events.EventPasswordResetAdmin, n.handlePasswordResetAdmin)
	n.dispatcher.Subscribe(events.EventOrderCreated, n.handleOrderCreated)
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}
	if err := n.mailer.SendPasswordReset(ctx, payload.Email, payload.Name, payload.ResetURL); err != nil {
		n.logger.Error("password reset email delivery failed",
			zap.String("email", payload.Email), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handlePasswordResetCompleted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetCompletedPayload)
	if !ok {
		return nil
	}
	if err := n.mailer.SendPasswordChanged(ctx, payload.Email, payload.Name); err != nil {
		n.logger.Error("password changed email delivery failed",
			zap.String("email", payload.Email), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handlePasswordResetAdmin(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetAdminPayload)
	if !ok || !payload.SendEmail {
		return nil
	}
	if err := n.mailer.SendPasswordChanged(ctx, payload.Email, payload.Name); err != nil {
		n.logger.Error("admin reset email delivery failed",
			zap.String("email", payload.Email), zap.Error(err))
	}
	return nil
}

func (n *NotificationService) handleOrderCreated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OrderCreatedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("OrderCreated",
		zap.String("order_id", payload.OrderID),
		zap.String("store_id", payload.StoreID),
		zap.Int64("total_cents", payload.TotalCents),
	)
	return nil
}
