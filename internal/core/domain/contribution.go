package domain

import "github.com/shopspring/decimal"

// Contribution is one contributor's standing in one campaign: the amount
// contributed and not yet refunded, and the reward credit accrued but not
// yet claimed. Both are never negative.
type Contribution struct {
	CampaignID    int64
	Contributor   Account
	Amount        decimal.Decimal
	PendingReward decimal.Decimal
}

// IsEmpty reports whether nothing is held for the contributor.
func (c Contribution) IsEmpty() bool {
	return c.Amount.IsZero() && c.PendingReward.IsZero()
}
