package memory

import (
	"context"
	"sync"
	"time"

	"crowdfund/internal/core/port"
)

type idempotencyRow struct {
	rec       port.IdempotencyRecord
	expiresAt time.Time
}

// sweepInterval is the minimum time between two scans for expired rows.
const sweepInterval = time.Minute

// IdempotencyStore implements port.IdempotencyStore with expiring map
// entries. It is used when no Redis address is configured. Expired rows are
// dropped by Reserve.
type IdempotencyStore struct {
	mu        sync.Mutex
	rows      map[string]idempotencyRow
	nowFn     func() time.Time
	nextSweep time.Time
}

// NewIdempotencyStore returns an empty store using the wall clock.
func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{rows: map[string]idempotencyRow{}, nowFn: time.Now}
}

func (s *IdempotencyStore) Reserve(_ context.Context, key, requestHash string, ttl time.Duration) (*port.IdempotencyRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.nowFn()
	s.sweep(now)
	if row, ok := s.rows[key]; ok && now.Before(row.expiresAt) {
		if row.rec.RequestHash != requestHash || !row.rec.Completed {
			return nil, port.ErrIdempotencyConflict
		}
		rec := row.rec
		rec.Body = append([]byte(nil), row.rec.Body...)
		return &rec, nil
	}
	s.rows[key] = idempotencyRow{
		rec:       port.IdempotencyRecord{Key: key, RequestHash: requestHash},
		expiresAt: now.Add(ttl),
	}
	return nil, nil
}

func (s *IdempotencyStore) Complete(_ context.Context, key string, statusCode int, body []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[key]
	if !ok {
		return port.ErrIdempotencyConflict
	}
	row.rec.Completed = true
	row.rec.StatusCode = statusCode
	row.rec.Body = append([]byte(nil), body...)
	row.expiresAt = s.nowFn().Add(ttl)
	s.rows[key] = row
	return nil
}

func (s *IdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.rows, key)
	return nil
}

// sweep deletes expired rows. Callers hold mu.
func (s *IdempotencyStore) sweep(now time.Time) {
	if now.Before(s.nextSweep) {
		return
	}
	for key, row := range s.rows {
		if !now.Before(row.expiresAt) {
			delete(s.rows, key)
		}
	}
	s.nextSweep = now.Add(sweepInterval)
}
