package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidLedgerSetup is returned when the reward ledger is configured
// without a name or symbol.
var ErrInvalidLedgerSetup = errors.New("reward ledger requires a name and a symbol")

// RewardLedgerInfo describes the reward-credit ledger. Owner is fixed when
// the ledger is initialised; Minter may be changed by the owner.
type RewardLedgerInfo struct {
	Owner       Account
	Minter      Account
	Name        string
	Symbol      string
	Decimals    uint8
	TotalSupply decimal.Decimal
}

// RewardLedgerSetup holds the one-time construction parameters.
type RewardLedgerSetup struct {
	Owner    Account
	Name     string
	Symbol   string
	Decimals uint8
}

// Validate rejects setups without an owner or a symbol.
func (s RewardLedgerSetup) Validate() error {
	if s.Owner.IsZero() {
		return ErrInvalidAccount
	}
	if strings.TrimSpace(s.Symbol) == "" || strings.TrimSpace(s.Name) == "" {
		return ErrInvalidLedgerSetup
	}
	return nil
}
