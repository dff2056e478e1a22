package port

import (
	"context"

	"crowdfund/internal/core/domain"
)

// EventPublisher delivers committed state changes to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
