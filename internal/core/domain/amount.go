package domain

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// RewardRate is the number of reward-credit units accrued per contributed
// unit. Both sides use the same decimal scale, so 1 ETH in wei earns
// 1000 * 10^18 credit units.
var RewardRate = decimal.NewFromInt(1000)

// MaxAmount is the largest value any amount, total or balance may hold:
// 2^256-1, which also fits the NUMERIC(78,0) columns.
var MaxAmount = decimal.NewFromBigInt(
	new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1)), 0)

// maxAmountDigits is the number of decimal digits of MaxAmount.
const maxAmountDigits = 78

// InRange reports whether 0 <= d <= MaxAmount. The exponent is checked
// before any comparison so exponent-form input like 1e3000000 is rejected
// without being expanded into a huge integer.
func InRange(d decimal.Decimal) bool {
	if d.IsNegative() {
		return false
	}
	if d.IsZero() {
		return true
	}
	exp := int64(d.Exponent())
	if exp < -maxAmountDigits || exp > maxAmountDigits {
		return false
	}
	if exp > 0 && int64(d.NumDigits())+exp > maxAmountDigits {
		return false
	}
	return d.Cmp(MaxAmount) <= 0
}

// IsPositiveWhole reports whether d is an integer in (0, MaxAmount].
// Amounts are always expressed in the smallest unit.
func IsPositiveWhole(d decimal.Decimal) bool {
	return d.IsPositive() && InRange(d) && d.IsInteger()
}

// AddAmounts returns a+b, or ErrInvalidAmount when the sum would exceed
// MaxAmount.
func AddAmounts(a, b decimal.Decimal) (decimal.Decimal, error) {
	sum := a.Add(b)
	if !InRange(sum) {
		return decimal.Zero, ErrInvalidAmount
	}
	return sum, nil
}

// RewardFor returns the reward credit earned by contributing amount.
func RewardFor(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(RewardRate)
}
