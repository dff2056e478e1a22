package port

import (
	"context"
	"errors"
	"time"
)

// ErrIdempotencyConflict is returned when an idempotency key is reused for a
// different request, or while the first request is still running.
var ErrIdempotencyConflict = errors.New("idempotency key conflict")

// IdempotencyRecord is the stored outcome of a request made with an
// Idempotency-Key header.
type IdempotencyRecord struct {
	Key         string `json:"key"`
	RequestHash string `json:"request_hash"`
	Completed   bool   `json:"completed"`
	StatusCode  int    `json:"status_code"`
	Body        []byte `json:"body"`
}

// IdempotencyStore remembers request outcomes so retried mutations are
// replayed instead of applied twice.
type IdempotencyStore interface {
	// Reserve claims key for requestHash. It returns (nil, nil) when the key
	// was free, the stored record when the key was already used for the
	// same request, and ErrIdempotencyConflict otherwise.
	Reserve(ctx context.Context, key, requestHash string, ttl time.Duration) (*IdempotencyRecord, error)
	// Complete stores the response for a reserved key.
	Complete(ctx context.Context, key string, statusCode int, body []byte, ttl time.Duration) error
	// Release forgets a reserved key so the request may be retried.
	Release(ctx context.Context, key string) error
}
