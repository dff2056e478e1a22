// Package treasury provides an in-process native-currency ledger that
// stands in for the external transfer capability.
package treasury

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
)

// Ledger implements port.Treasury over in-memory balances and a single
// custody pool holding contributed funds.
type Ledger struct {
	mu       sync.Mutex
	balances map[domain.Account]decimal.Decimal
	custody  decimal.Decimal
}

// NewLedger returns a ledger funded with the genesis balances.
func NewLedger(genesis map[domain.Account]decimal.Decimal) *Ledger {
	l := &Ledger{balances: make(map[domain.Account]decimal.Decimal, len(genesis))}
	for account, amount := range genesis {
		l.balances[account] = amount
	}
	return l
}

// Deposit credits amount to account from outside the system.
func (l *Ledger) Deposit(account domain.Account, amount decimal.Decimal) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.balances[account] = l.balances[account].Add(amount)
}

func (l *Ledger) Collect(ctx context.Context, from domain.Account, amount decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	bal := l.balances[from]
	if bal.LessThan(amount) {
		return fmt.Errorf("collect %s from %s: %w", amount, from, domain.ErrInsufficientFunds)
	}
	l.balances[from] = bal.Sub(amount)
	l.custody = l.custody.Add(amount)
	return nil
}

func (l *Ledger) Pay(ctx context.Context, to domain.Account, amount decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.custody.LessThan(amount) {
		return fmt.Errorf("pay %s to %s: custody holds %s: %w", amount, to, l.custody, domain.ErrInsufficientFunds)
	}
	l.custody = l.custody.Sub(amount)
	l.balances[to] = l.balances[to].Add(amount)
	return nil
}

func (l *Ledger) BalanceOf(_ context.Context, account domain.Account) (decimal.Decimal, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.balances[account], nil
}

// Custody returns the funds currently held on behalf of campaigns.
func (l *Ledger) Custody() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.custody
}
