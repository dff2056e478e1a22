package port

import (
	"context"

	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
)

// Treasury moves native currency between accounts and the engine's custody.
// It is the pre-existing fungible transfer capability the engine depends
// on. A transfer is a reentry point: implementations may call back into the
// engine with the context they were given.
type Treasury interface {
	// Collect moves amount from the account into custody. It returns
	// domain.ErrInsufficientFunds when the account balance is short.
	Collect(ctx context.Context, from domain.Account, amount decimal.Decimal) error
	// Pay moves amount from custody to the account.
	Pay(ctx context.Context, to domain.Account, amount decimal.Decimal) error
	// BalanceOf returns the account's spendable balance.
	BalanceOf(ctx context.Context, account domain.Account) (decimal.Decimal, error)
}
