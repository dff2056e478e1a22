package usecase

import (
	"context"
	"log/slog"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, domain.Event) error { return nil }

// publish delivers events after their state change committed. Delivery
// failures are logged; the state change is not undone.
func publish(ctx context.Context, p port.EventPublisher, logger *slog.Logger, events []domain.Event) {
	for _, ev := range events {
		if err := p.Publish(ctx, ev); err != nil {
			logger.Error("publish event error",
				slog.String("type", ev.Type),
				slog.String("event_id", ev.ID.String()),
				slog.Any("error", err))
		}
	}
}
