package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

var draft = domain.CampaignDraft{Title: "C", Owner: "owner", Goal: decimal.NewFromInt(10), DurationSeconds: 60}

func TestAtomicRollsBackEveryTable(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	setup := domain.RewardLedgerSetup{Owner: "deployer", Name: "R", Symbol: "R", Decimals: 18}

	if err := s.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
		if _, err := tx.Campaigns().Create(ctx, draft, time.Now()); err != nil {
			return err
		}
		_, err := tx.Rewards().Init(ctx, setup)
		return err
	}); err != nil {
		t.Fatalf("setup error: %v", err)
	}

	errBoom := errors.New("boom")
	err := s.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
		if _, err := tx.Campaigns().Create(ctx, draft, time.Now()); err != nil {
			return err
		}
		if _, err := tx.Contributions().RecordContribution(ctx, 1, "alice", decimal.NewFromInt(3)); err != nil {
			return err
		}
		if err := tx.Campaigns().MarkFinalized(ctx, 1, true); err != nil {
			return err
		}
		if err := tx.Rewards().SetMinter(ctx, "m"); err != nil {
			return err
		}
		if err := tx.Rewards().Credit(ctx, "alice", decimal.NewFromInt(7)); err != nil {
			return err
		}
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected boom, got %v", err)
	}

	_ = s.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
		n, _ := tx.Campaigns().Count(ctx)
		if n != 1 {
			t.Fatalf("expected 1 campaign after rollback, got %d", n)
		}
		c, _ := tx.Campaigns().Get(ctx, 1)
		if c.Finalized || !c.TotalRaised.IsZero() {
			t.Fatalf("campaign not restored: %+v", c)
		}
		row, _ := tx.Contributions().Get(ctx, 1, "alice")
		if !row.IsEmpty() {
			t.Fatalf("contribution not restored: %+v", row)
		}
		info, _ := tx.Rewards().Info(ctx)
		if !info.Minter.IsZero() || !info.TotalSupply.IsZero() {
			t.Fatalf("ledger not restored: %+v", info)
		}
		bal, _ := tx.Rewards().BalanceOf(ctx, "alice")
		if !bal.IsZero() {
			t.Fatalf("balance not restored: %s", bal)
		}
		return nil
	})
}

func TestAtomicRollsBackOnPanic(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		_ = s.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
			if _, err := tx.Campaigns().Create(ctx, draft, time.Now()); err != nil {
				return err
			}
			panic("boom")
		})
	}()

	_ = s.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
		if n, _ := tx.Campaigns().Count(ctx); n != 0 {
			t.Fatalf("expected no campaigns, got %d", n)
		}
		return nil
	})
}

func TestContributionLedgerOperations(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	three := decimal.NewFromInt(3)

	err := s.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
		if _, err := tx.Campaigns().Create(ctx, draft, time.Now()); err != nil {
			return err
		}
		if _, err := tx.Contributions().RecordContribution(ctx, 2, "alice", three); !errors.Is(err, domain.ErrNotFound) {
			t.Fatalf("expected NotFound, got %v", err)
		}
		if _, err := tx.Contributions().RecordContribution(ctx, 1, "alice", decimal.Zero); !errors.Is(err, domain.ErrInvalidAmount) {
			t.Fatalf("expected InvalidAmount, got %v", err)
		}
		row, err := tx.Contributions().RecordContribution(ctx, 1, "alice", three)
		if err != nil {
			return err
		}
		if !row.PendingReward.Equal(decimal.NewFromInt(3000)) {
			t.Fatalf("unexpected pending reward %s", row.PendingReward)
		}

		pending, err := tx.Contributions().ClearPendingReward(ctx, 1, "alice")
		if err != nil || !pending.Equal(decimal.NewFromInt(3000)) {
			t.Fatalf("ClearPendingReward: %s, %v", pending, err)
		}
		amount, _ := tx.Contributions().ContributionOf(ctx, 1, "alice")
		if !amount.Equal(three) {
			t.Fatalf("clearing the reward must keep the contribution, got %s", amount)
		}

		if err = tx.Contributions().RevertContribution(ctx, 1, "alice", three); err == nil {
			t.Fatalf("revert below zero pending reward must fail")
		}

		removed, err := tx.Contributions().ClearContribution(ctx, 1, "alice")
		if err != nil || !removed.Amount.Equal(three) {
			t.Fatalf("ClearContribution: %+v, %v", removed, err)
		}
		if err = tx.Contributions().RestoreContribution(ctx, removed); err != nil {
			return err
		}
		amount, _ = tx.Contributions().ContributionOf(ctx, 1, "alice")
		if !amount.Equal(three) {
			t.Fatalf("restore failed, got %s", amount)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Atomic error: %v", err)
	}
}

func TestMarkFinalizedTwiceFails(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	err := s.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
		if _, err := tx.Campaigns().Create(ctx, draft, time.Now()); err != nil {
			return err
		}
		if err := tx.Campaigns().MarkFinalized(ctx, 1, false); err != nil {
			return err
		}
		return tx.Campaigns().MarkFinalized(ctx, 1, false)
	})
	if !errors.Is(err, domain.ErrAlreadyFinalized) {
		t.Fatalf("expected AlreadyFinalized, got %v", err)
	}
}

func TestTxUnusableAfterAtomicReturns(t *testing.T) {
	s := NewStore()
	var leaked port.Tx
	_ = s.Atomic(context.Background(), func(_ context.Context, tx port.Tx) error {
		leaked = tx
		return nil
	})
	if _, err := leaked.Campaigns().Count(context.Background()); !errors.Is(err, errTxClosed) {
		t.Fatalf("expected closed transaction error, got %v", err)
	}
}

func TestListPaginates(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	_ = s.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
		for i := 0; i < 5; i++ {
			if _, err := tx.Campaigns().Create(ctx, draft, time.Now()); err != nil {
				t.Fatalf("Create error: %v", err)
			}
		}
		page, _ := tx.Campaigns().List(ctx, 2, 2)
		if len(page) != 2 || page[0].ID != 2 || page[1].ID != 3 {
			t.Fatalf("unexpected page %+v", page)
		}
		all, _ := tx.Campaigns().List(ctx, 0, 0)
		if len(all) != 5 {
			t.Fatalf("expected 5, got %d", len(all))
		}
		none, _ := tx.Campaigns().List(ctx, 6, 1)
		if len(none) != 0 {
			t.Fatalf("expected empty page, got %d", len(none))
		}
		return nil
	})
}
