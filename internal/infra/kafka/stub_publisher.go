package kafka

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/northbooks/accounts-service/internal/core/domain"
	"github.com/northbooks/accounts-service/internal/core/port"
)

// StubPublisher logs events instead of sending them to Kafka. Useful for development environments.
type StubPublisher struct {
	logger *zap.Logger
}

// NewStubPublisher constructs a development-friendly event publisher.
func NewStubPublisher(logger *zap.Logger) *StubPublisher {
	return &StubPublisher{logger: logger}
}

func (p *StubPublisher) logEvent(eventType, accountID string, at time.Time, payload any) {
	if at.IsZero() {
		at = time.Now().UTC()
	}

	p.logger.Info("Stub event published",
		zap.String("event_type", eventType),
		zap.String("account_id", accountID),
		zap.Time("timestamp", at.UTC()),
		zap.Any("payload", payload),
	)
}

// PublishAccountRegistered logs user.registered events.
func (p *StubPublisher) PublishAccountRegistered(_ context.Context, event domain.AccountRegisteredEvent) error {
	payload := map[string]any{
		"account_id":    event.AccountID,
		"email":         event.Email,
		"account_type":  event.AccountType,
		"role_name":     event.RoleName,
		"registered_at": event.RegisteredAt,
		"metadata":      event.Metadata,
	}
	p.logEvent(EventTypeUserRegistered, event.AccountID, event.RegisteredAt, payload)
	return nil
}

// PublishAccountLocked logs user.locked events.
func (p *StubPublisher) PublishAccountLocked(_ context.Context, event domain.AccountLockedEvent) error {
	payload := map[string]any{
		"account_id":      event.AccountID,
		"failed_attempts": event.FailedAttempts,
		"locked_until":    event.LockedUntil,
		"locked_at":       event.LockedAt,
		"metadata":        event.Metadata,
	}
	p.logEvent(EventTypeUserLocked, event.AccountID, event.LockedAt, payload)
	return nil
}

// PublishProfileUpdated logs profile.updated events.
func (p *StubPublisher) PublishProfileUpdated(_ context.Context, event domain.ProfileUpdatedEvent) error {
	payload := map[string]any{
		"account_id":     event.AccountID,
		"updated_fields": event.UpdatedFields,
		"updated_at":     event.UpdatedAt,
		"metadata":       event.Metadata,
	}
	p.logEvent(EventTypeProfileUpdated, event.AccountID, event.UpdatedAt, payload)
	return nil
}

var _ port.EventPublisher = (*StubPublisher)(nil)
