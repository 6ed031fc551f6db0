package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/medical-records-service/internal/events"
)

// AuditService logs security-relevant events with full detail. Client-facing
// auth failures are deliberately generic; the real causes land here.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	a.dispatcher.Subscribe(events.EventUserLoggedIn, a.handleAuthEvent)
	a.dispatcher.Subscribe(events.EventLoginFailed, a.handleLoginFailed)
	a.dispatcher.Subscribe(events.EventUserLoggedOut, a.handleAuthEvent)
	a.dispatcher.Subscribe(events.EventRecordCreated, a.handleRecordEvent)
	a.dispatcher.Subscribe(events.EventRecordUpdated, a.handleRecordEvent)
	a.dispatcher.Subscribe(events.EventRecordDeleted, a.handleRecordEvent)
}

func (a *AuditService) handleAuthEvent(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("user_id", event.UserID),
		zap.Time("timestamp", event.Timestamp))
	return nil
}

func (a *AuditService) handleLoginFailed(_ context.Context, event events.Event) error {
	a.logger.Warn(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("user_id", event.UserID),
		zap.Any("payload", event.Payload))
	return nil
}

func (a *AuditService) handleRecordEvent(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("user_id", event.UserID),
		zap.Any("payload", event.Payload))
	return nil
}
