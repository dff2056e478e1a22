package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Event types emitted after a state change commits.
const (
	EventCampaignCreated      = "campaign.created"
	EventCampaignContributed  = "campaign.contributed"
	EventCampaignFinalized    = "campaign.finalized"
	EventRewardClaimed        = "reward.claimed"
	EventContributionRefunded = "contribution.refunded"
	EventRewardMinterSet      = "reward.minter_set"
	EventRewardMinted         = "reward.minted"
)

// Event is a record of a committed state change.
type Event struct {
	ID         uuid.UUID       `json:"id"`
	Type       string          `json:"type"`
	CampaignID int64           `json:"campaign_id,omitempty"`
	Account    Account         `json:"account,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Successful *bool           `json:"successful,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// NewEvent stamps an event of the given type with a fresh id.
func NewEvent(typ string, campaignID int64, account Account, amount decimal.Decimal, at time.Time) Event {
	return Event{
		ID:         uuid.New(),
		Type:       typ,
		CampaignID: campaignID,
		Account:    account,
		Amount:     amount,
		OccurredAt: at.UTC(),
	}
}
