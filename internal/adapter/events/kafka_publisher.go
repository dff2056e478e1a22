package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/segmentio/kafka-go"

	"crowdfund/internal/core/domain"
)

// messageWriter is the subset of *kafka.Writer the publisher needs.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher writes events as JSON to one topic per event type. Messages
// are keyed by campaign id so that the events of one campaign stay ordered
// within a partition.
type KafkaPublisher struct {
	writer      messageWriter
	topicPrefix string
}

func NewKafkaPublisher(brokers []string, topicPrefix string) (*KafkaPublisher, error) {
	if len(brokers) == 0 {
		return nil, fmt.Errorf("kafka publisher requires at least one broker")
	}
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			RequiredAcks:           kafka.RequireAll,
			Balancer:               &kafka.Hash{},
			AllowAutoTopicCreation: true,
		},
		topicPrefix: topicPrefix,
	}, nil
}

// Topic returns the topic events of the given type are written to.
func (p *KafkaPublisher) Topic(eventType string) string {
	return p.topicPrefix + eventType
}

func (p *KafkaPublisher) Publish(ctx context.Context, ev domain.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", ev.Type, err)
	}
	key := "ledger"
	if ev.CampaignID != 0 {
		key = strconv.FormatInt(ev.CampaignID, 10)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.Topic(ev.Type),
		Key:   []byte(key),
		Value: payload,
		Time:  ev.OccurredAt,
	})
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
