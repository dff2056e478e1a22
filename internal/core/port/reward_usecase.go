package port

import (
	"context"

	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
)

// RewardUseCase is the capability-gated reward-credit ledger. It knows
// nothing about campaigns.
type RewardUseCase interface {
	// SetMinter replaces the minter. Only the ledger owner may call it.
	SetMinter(ctx context.Context, caller, minter domain.Account) error
	// Mint credits amount to account. Only the current minter may call it.
	Mint(ctx context.Context, caller, account domain.Account, amount decimal.Decimal) error
	BalanceOf(ctx context.Context, account domain.Account) (decimal.Decimal, error)
	// Info returns name, symbol, decimals, total supply, owner and minter.
	Info(ctx context.Context) (domain.RewardLedgerInfo, error)
}
