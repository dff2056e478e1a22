package httpadapter

import (
	"time"

	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

// Amounts are encoded as decimal strings in the smallest unit; requests
// accept both strings and JSON numbers.

type createCampaignRequest struct {
	Title           string          `json:"title"`
	Goal            decimal.Decimal `json:"goal"`
	DurationSeconds int64           `json:"duration_seconds"`
}

type createCampaignResponse struct {
	ID int64 `json:"id"`
}

type contributeRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type setMinterRequest struct {
	Minter string `json:"minter"`
}

type mintRequest struct {
	Account string          `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

type campaignResponse struct {
	ID            int64            `json:"id"`
	Title         string           `json:"title"`
	Owner         string           `json:"owner"`
	Goal          decimal.Decimal  `json:"goal"`
	Deadline      time.Time        `json:"deadline"`
	TotalRaised   decimal.Decimal  `json:"total_raised"`
	Finalized     bool             `json:"finalized"`
	Successful    bool             `json:"successful"`
	State         domain.State     `json:"state,omitempty"`
	Status        string           `json:"status,omitempty"`
	Contribution  *decimal.Decimal `json:"contribution,omitempty"`
	PendingReward *decimal.Decimal `json:"pending_reward,omitempty"`
}

type campaignListResponse struct {
	Count     int64              `json:"count"`
	Campaigns []campaignResponse `json:"campaigns"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

type amountResponse struct {
	CampaignID int64           `json:"campaign_id,omitempty"`
	Account    string          `json:"account"`
	Amount     decimal.Decimal `json:"amount"`
}

type rewardInfoResponse struct {
	Name        string          `json:"name"`
	Symbol      string          `json:"symbol"`
	Decimals    uint8           `json:"decimals"`
	TotalSupply decimal.Decimal `json:"total_supply"`
	Owner       string          `json:"owner"`
	Minter      string          `json:"minter"`
}

func toCampaignResponse(c domain.Campaign, state domain.State) campaignResponse {
	return campaignResponse{
		ID:          c.ID,
		Title:       c.Title,
		Owner:       c.Owner.String(),
		Goal:        c.Goal,
		Deadline:    c.Deadline,
		TotalRaised: c.TotalRaised,
		Finalized:   c.Finalized,
		Successful:  c.Successful,
		State:       state,
		Status:      state.Label(),
	}
}

func toCampaignViewResponse(v port.CampaignView, withStanding bool) campaignResponse {
	resp := toCampaignResponse(v.Campaign, v.State)
	if withStanding {
		contribution, pending := v.Contribution, v.PendingReward
		resp.Contribution, resp.PendingReward = &contribution, &pending
	}
	return resp
}

func toRewardInfoResponse(info domain.RewardLedgerInfo) rewardInfoResponse {
	return rewardInfoResponse{
		Name:        info.Name,
		Symbol:      info.Symbol,
		Decimals:    info.Decimals,
		TotalSupply: info.TotalSupply,
		Owner:       info.Owner.String(),
		Minter:      info.Minter.String(),
	}
}
