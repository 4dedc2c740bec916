package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-tracker/internal/config"
	"github.com/spec-kit/complaint-tracker/internal/events"
	"github.com/spec-kit/complaint-tracker/internal/mail"
)

// NotificationService emits best-effort admin email for domain events.
// A transport failure is logged by the dispatcher and swallowed; it never
// changes the outcome of the triggering operation.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     mail.Sender
	logger     *zap.Logger
	cfg        config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender mail.Sender, logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sender:     sender,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events. The status-change trigger is a
// configuration choice and defaults to off.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	if n.cfg.NotifyStatusChange {
		n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleStatusChanged)
	}
}

func (n *NotificationService) handleComplaintCreated(_ context.Context, event events.Event) error {
	if strings.TrimSpace(n.cfg.AdminEmail) == "" {
		return nil
	}
	payload, ok := event.Payload.(events.ComplaintCreatedPayload)
	if !ok {
		n.logger.Warn("unexpected payload type", zap.String("event_id", event.ID))
		return nil
	}

	n.logger.Info("sending complaint-created notification",
		zap.String("complaint_id", event.ComplaintID),
		zap.String("to", n.cfg.AdminEmail))
	return n.sender.SendComplaintCreated(
		n.cfg.AdminEmail,
		payload.Title,
		string(payload.Category),
		string(payload.Priority),
		payload.Description,
	)
}

func (n *NotificationService) handleStatusChanged(_ context.Context, event events.Event) error {
	if strings.TrimSpace(n.cfg.AdminEmail) == "" {
		return nil
	}
	payload, ok := event.Payload.(events.ComplaintStatusChangedPayload)
	if !ok {
		n.logger.Warn("unexpected payload type", zap.String("event_id", event.ID))
		return nil
	}

	changedAt := payload.ChangedAt
	if changedAt.IsZero() {
		changedAt = time.Now()
	}
	return n.sender.SendStatusChanged(n.cfg.AdminEmail, payload.Title, string(payload.NewStatus), changedAt)
}
