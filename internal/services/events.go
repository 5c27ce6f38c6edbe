package services

import (
	"context"
	"log/slog"
	"time"

	"accountd/internal/models"

	"github.com/google/uuid"
)

// EventPublisher delivers user lifecycle events to a broker.
type EventPublisher interface {
	PublishUserEvent(ctx context.Context, event models.UserEvent) error
}

// publishUserEvent is best effort: a broker outage never fails the request
// whose write has already committed.
func publishUserEvent(ctx context.Context, publisher EventPublisher, eventType string, user *models.User) {
	if publisher == nil {
		return
	}
	event := models.UserEvent{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		OccurredAt: time.Now().UTC(),
	}
	if err := publisher.PublishUserEvent(ctx, event); err != nil {
		slog.Warn("failed to publish user event", "type", eventType, "user_id", user.ID, "error", err)
	}
}
