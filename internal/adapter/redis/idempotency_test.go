package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/core/port"
)

func newTestStore(t *testing.T) *IdempotencyStore {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDRESS")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDRESS not set")
	}
	client, err := Connect(context.Background(), addr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyStore(client)
}

func TestIdempotencyReserveCompleteReplay(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	key := uuid.NewString()
	t.Cleanup(func() { _ = s.Release(ctx, key) })

	rec, err := s.Reserve(ctx, key, "h1", time.Minute)
	require.NoError(t, err)
	require.Nil(t, rec)

	_, err = s.Reserve(ctx, key, "h1", time.Minute)
	require.ErrorIs(t, err, port.ErrIdempotencyConflict)

	require.NoError(t, s.Complete(ctx, key, 201, []byte(`{"id":1}`), time.Minute))

	rec, err = s.Reserve(ctx, key, "h1", time.Minute)
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.Equal(t, 201, rec.StatusCode)
	require.JSONEq(t, `{"id":1}`, string(rec.Body))

	_, err = s.Reserve(ctx, key, "h2", time.Minute)
	require.ErrorIs(t, err, port.ErrIdempotencyConflict)

	require.NoError(t, s.Release(ctx, key))
	rec, err = s.Reserve(ctx, key, "h2", time.Minute)
	require.NoError(t, err)
	require.Nil(t, rec)
}
