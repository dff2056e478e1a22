package configs

import (
	"fmt"

	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
)

// Treasury configures the in-process native-currency ledger.
type Treasury struct {
	// Genesis lists starting balances as account:amount pairs separated by
	// commas, e.g. "alice:1000000000000000000,bob:5".
	Genesis map[string]string `env:"GENESIS" envSeparator:"," envKeyValSeparator:":"`
}

// Balances parses the genesis amounts.
func (c Treasury) Balances() (map[string]decimal.Decimal, error) {
	out := make(map[string]decimal.Decimal, len(c.Genesis))
	for account, raw := range c.Genesis {
		amount, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("genesis balance of %s: %w", account, err)
		}
		if !domain.InRange(amount) || !amount.IsInteger() {
			return nil, fmt.Errorf("genesis balance of %s must be a whole amount between 0 and 2^256-1", account)
		}
		out[account] = amount
	}
	return out, nil
}
