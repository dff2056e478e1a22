package treasury

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
)

func TestLedgerCollectAndPay(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(map[domain.Account]decimal.Decimal{"alice": decimal.NewFromInt(10)})

	if err := l.Collect(ctx, "alice", decimal.NewFromInt(11)); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("expected insufficient funds, got %v", err)
	}
	if err := l.Collect(ctx, "alice", decimal.NewFromInt(4)); err != nil {
		t.Fatalf("Collect error: %v", err)
	}
	if !l.Custody().Equal(decimal.NewFromInt(4)) {
		t.Fatalf("unexpected custody %s", l.Custody())
	}
	if err := l.Pay(ctx, "bob", decimal.NewFromInt(5)); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("paying more than custody must fail, got %v", err)
	}
	if err := l.Pay(ctx, "bob", decimal.NewFromInt(4)); err != nil {
		t.Fatalf("Pay error: %v", err)
	}
	bob, _ := l.BalanceOf(ctx, "bob")
	alice, _ := l.BalanceOf(ctx, "alice")
	if !bob.Equal(decimal.NewFromInt(4)) || !alice.Equal(decimal.NewFromInt(6)) || !l.Custody().IsZero() {
		t.Fatalf("unexpected balances alice=%s bob=%s custody=%s", alice, bob, l.Custody())
	}

	l.Deposit("carol", decimal.NewFromInt(2))
	carol, _ := l.BalanceOf(ctx, "carol")
	if !carol.Equal(decimal.NewFromInt(2)) {
		t.Fatalf("unexpected carol balance %s", carol)
	}
}

func TestLedgerHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	l := NewLedger(map[domain.Account]decimal.Decimal{"alice": decimal.NewFromInt(10)})
	if err := l.Collect(ctx, "alice", decimal.NewFromInt(1)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
