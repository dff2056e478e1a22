package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"crowdfund/internal/core/port"
)

const keyPrefix = "crowdfund:idempotency:"

// IdempotencyStore implements port.IdempotencyStore with one JSON value per
// key. Reservation relies on SET NX so concurrent requests with the same key
// race on Redis, not in process.
type IdempotencyStore struct {
	client goredis.UniversalClient
}

func NewIdempotencyStore(client goredis.UniversalClient) *IdempotencyStore {
	return &IdempotencyStore{client: client}
}

func (s *IdempotencyStore) Reserve(ctx context.Context, key, requestHash string, ttl time.Duration) (*port.IdempotencyRecord, error) {
	pending, err := json.Marshal(port.IdempotencyRecord{Key: key, RequestHash: requestHash})
	if err != nil {
		return nil, err
	}
	ok, err := s.client.SetNX(ctx, keyPrefix+key, pending, ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("reserve idempotency key: %w", err)
	}
	if ok {
		return nil, nil
	}

	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		// Expired between SETNX and GET; treat as in flight.
		return nil, port.ErrIdempotencyConflict
	}
	if err != nil {
		return nil, fmt.Errorf("load idempotency key: %w", err)
	}
	var rec port.IdempotencyRecord
	if err = json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode idempotency record: %w", err)
	}
	if rec.RequestHash != requestHash || !rec.Completed {
		return nil, port.ErrIdempotencyConflict
	}
	return &rec, nil
}

func (s *IdempotencyStore) Complete(ctx context.Context, key string, statusCode int, body []byte, ttl time.Duration) error {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return port.ErrIdempotencyConflict
	}
	if err != nil {
		return err
	}
	var rec port.IdempotencyRecord
	if err = json.Unmarshal(raw, &rec); err != nil {
		return err
	}
	rec.Completed, rec.StatusCode, rec.Body = true, statusCode, body
	done, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, keyPrefix+key, done, ttl).Err()
}

func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}
