// Package postgres implements the engine's storage port on PostgreSQL via
// pgx. Amounts are NUMERIC(78,0) and travel as decimal strings.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"crowdfund/internal/core/port"
)

// serializationFailure is the SQLSTATE of a serializable transaction that
// lost a conflict with a concurrent one.
const serializationFailure = "40001"

const maxAttempts = 3

// Store implements port.Store using pgxpool. Each Atomic call is one
// serializable transaction, retried when Postgres reports a serialization
// failure.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore returns a new store instance.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, tx port.Tx) error) error {
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err = s.atomic(ctx, fn); !isSerializationFailure(err) {
			return err
		}
	}
	return fmt.Errorf("postgres: giving up after %d attempts: %w", maxAttempts, err)
}

func (s *Store) atomic(ctx context.Context, fn func(ctx context.Context, tx port.Tx) error) (err error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
		} else {
			err = tx.Commit(ctx)
		}
	}()
	return fn(ctx, txn{tx})
}

func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == serializationFailure
}

type txn struct{ tx pgx.Tx }

func (t txn) Campaigns() port.CampaignStore         { return campaignRepository(t) }
func (t txn) Contributions() port.ContributionLedger { return contributionRepository(t) }
func (t txn) Rewards() port.RewardRepository         { return rewardRepository(t) }

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("postgres: bad numeric %q: %w", s, err)
	}
	return d, nil
}

// expectOne fails when a guarded UPDATE matched no row.
func expectOne(tag pgconn.CommandTag, what string) error {
	if tag.RowsAffected() != 1 {
		return fmt.Errorf("postgres: %s: affected %d rows", what, tag.RowsAffected())
	}
	return nil
}
