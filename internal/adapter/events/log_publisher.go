// Package events delivers committed engine events to downstream consumers.
package events

import (
	"context"
	"log/slog"

	"crowdfund/internal/core/domain"
)

// LogPublisher writes every event to a structured logger. It is used when
// no Kafka brokers are configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, ev domain.Event) error {
	attrs := []slog.Attr{
		slog.String("event_id", ev.ID.String()),
		slog.String("type", ev.Type),
		slog.Int64("campaign_id", ev.CampaignID),
		slog.String("account", ev.Account.String()),
		slog.String("amount", ev.Amount.String()),
	}
	if ev.Successful != nil {
		attrs = append(attrs, slog.Bool("successful", *ev.Successful))
	}
	p.logger.LogAttrs(ctx, slog.LevelInfo, "event", attrs...)
	return nil
}
