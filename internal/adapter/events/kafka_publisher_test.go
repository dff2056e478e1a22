package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/core/domain"
)

type recordingWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestNewKafkaPublisherRequiresBrokers(t *testing.T) {
	_, err := NewKafkaPublisher(nil, "crowdfund.")
	require.Error(t, err)
}

func TestKafkaPublisherRoutesByTypeAndKeysByCampaign(t *testing.T) {
	w := &recordingWriter{}
	p := &KafkaPublisher{writer: w, topicPrefix: "crowdfund."}

	at := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	ok := true
	ev := domain.NewEvent(domain.EventCampaignFinalized, 42, "owner", decimal.NewFromInt(7), at)
	ev.Successful = &ok
	require.NoError(t, p.Publish(context.Background(), ev))
	require.NoError(t, p.Publish(context.Background(), domain.NewEvent(domain.EventRewardMinterSet, 0, "engine", decimal.Zero, at)))

	require.Len(t, w.msgs, 2)
	require.Equal(t, "crowdfund.campaign.finalized", w.msgs[0].Topic)
	require.Equal(t, "42", string(w.msgs[0].Key))
	require.Equal(t, at, w.msgs[0].Time)
	require.Equal(t, "ledger", string(w.msgs[1].Key))

	var decoded domain.Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	require.Equal(t, ev.ID, decoded.ID)
	require.True(t, decoded.Amount.Equal(decimal.NewFromInt(7)))
	require.NotNil(t, decoded.Successful)
	require.True(t, *decoded.Successful)

	require.NoError(t, p.Close())
	require.True(t, w.closed)
}
