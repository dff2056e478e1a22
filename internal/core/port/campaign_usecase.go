package port

import (
	"context"

	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
)

// CampaignUseCase defines the operations exposed by the crowdfunding
// engine. This interface is the primary port into the application domain.
// Every mutating call is atomic: it either applies all of its ledger
// changes and fund transfers or none of them.
type CampaignUseCase interface {
	// CreateCampaign opens a campaign owned by caller and returns its id.
	CreateCampaign(ctx context.Context, caller domain.Account, title string, goal decimal.Decimal, durationSeconds int64) (int64, error)

	// Contribute collects amount from caller into custody and records it
	// against the campaign, accruing amount*RewardRate pending reward.
	Contribute(ctx context.Context, caller domain.Account, campaignID int64, amount decimal.Decimal) error

	// FinalizeCampaign settles a campaign whose deadline has passed. A
	// successful campaign pays its total raised to the owner.
	FinalizeCampaign(ctx context.Context, campaignID int64) (domain.Campaign, error)

	// ClaimReward mints the caller's pending reward of a successful
	// campaign and returns the minted amount.
	ClaimReward(ctx context.Context, caller domain.Account, campaignID int64) (decimal.Decimal, error)

	// Refund returns the caller's contribution to a failed campaign and
	// returns the refunded amount.
	Refund(ctx context.Context, caller domain.Account, campaignID int64) (decimal.Decimal, error)

	CampaignCount(ctx context.Context) (int64, error)
	Campaign(ctx context.Context, campaignID int64) (domain.Campaign, error)
	// ListCampaigns returns campaigns in id order together with the viewer's
	// standing. viewer may be empty.
	ListCampaigns(ctx context.Context, viewer domain.Account, from int64, limit int) ([]CampaignView, error)
	Contribution(ctx context.Context, campaignID int64, account domain.Account) (decimal.Decimal, error)
	PendingReward(ctx context.Context, campaignID int64, account domain.Account) (decimal.Decimal, error)
}

// CampaignView is a campaign as seen by one viewer at one instant. It is a
// DTO used by the HTTP layer.
type CampaignView struct {
	Campaign      domain.Campaign
	State         domain.State
	Contribution  decimal.Decimal
	PendingReward decimal.Decimal
}
