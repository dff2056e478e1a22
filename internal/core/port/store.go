package port

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
)

// ErrLedgerUninitialised is returned when the reward ledger has not been
// set up yet.
var ErrLedgerUninitialised = errors.New("reward ledger is not initialised")

// Store is the persistence layer of the crowdfunding engine. It is an
// outbound port in hexagonal architecture. Atomic runs fn inside a single
// transaction: if fn returns an error every mutation made through tx is
// discarded, otherwise all of them become visible together.
type Store interface {
	Atomic(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}

// Tx exposes the tables reachable inside one transaction.
type Tx interface {
	Campaigns() CampaignStore
	Contributions() ContributionLedger
	Rewards() RewardRepository
}

// CampaignStore is the authoritative, append-only record of campaigns.
type CampaignStore interface {
	// Create validates draft, allocates the next sequential id (starting at
	// 1) and stores the campaign with deadline = now + duration.
	Create(ctx context.Context, draft domain.CampaignDraft, now time.Time) (domain.Campaign, error)
	// Get returns domain.ErrNotFound for ids that were never created.
	Get(ctx context.Context, id int64) (domain.Campaign, error)
	// Count returns the number of campaigns, which is also the highest id.
	Count(ctx context.Context) (int64, error)
	// List returns up to limit campaigns starting at id from, in id order.
	List(ctx context.Context, from int64, limit int) ([]domain.Campaign, error)
	// MarkFinalized sets the terminal flags. A second call for the same id
	// fails with domain.ErrAlreadyFinalized.
	MarkFinalized(ctx context.Context, id int64, successful bool) error
	// RevertFinalization clears the terminal flags again. It is only used to
	// compensate a payout that failed after MarkFinalized committed.
	RevertFinalization(ctx context.Context, id int64) error
}

// ContributionLedger keeps the per-campaign, per-contributor contributed
// amount and pending reward credit. No operation drives a value negative.
type ContributionLedger interface {
	// RecordContribution adds amount to the contribution and to the
	// campaign's total raised, and amount*RewardRate to the pending reward.
	RecordContribution(ctx context.Context, campaignID int64, contributor domain.Account, amount decimal.Decimal) (domain.Contribution, error)
	// Get returns the contributor's record; a zero record when none exists.
	Get(ctx context.Context, campaignID int64, contributor domain.Account) (domain.Contribution, error)
	ContributionOf(ctx context.Context, campaignID int64, contributor domain.Account) (decimal.Decimal, error)
	PendingRewardOf(ctx context.Context, campaignID int64, contributor domain.Account) (decimal.Decimal, error)
	// ClearContribution zeroes both amounts and returns the values removed.
	ClearContribution(ctx context.Context, campaignID int64, contributor domain.Account) (domain.Contribution, error)
	// ClearPendingReward zeroes only the pending reward and returns it.
	ClearPendingReward(ctx context.Context, campaignID int64, contributor domain.Account) (decimal.Decimal, error)
	// RevertContribution undoes a RecordContribution of amount.
	RevertContribution(ctx context.Context, campaignID int64, contributor domain.Account, amount decimal.Decimal) error
	// RestoreContribution writes back a record removed by ClearContribution.
	RestoreContribution(ctx context.Context, c domain.Contribution) error
}

// RewardRepository persists the reward-credit ledger: its configuration,
// per-account balances and total supply. It performs no authorization.
type RewardRepository interface {
	// Init stores setup unless the ledger already exists and returns the
	// stored ledger either way. The owner never changes after the first Init.
	Init(ctx context.Context, setup domain.RewardLedgerSetup) (domain.RewardLedgerInfo, error)
	// Info returns ErrLedgerUninitialised before Init.
	Info(ctx context.Context) (domain.RewardLedgerInfo, error)
	SetMinter(ctx context.Context, minter domain.Account) error
	// Credit increases the account balance and the total supply by amount.
	Credit(ctx context.Context, account domain.Account, amount decimal.Decimal) error
	BalanceOf(ctx context.Context, account domain.Account) (decimal.Decimal, error)
}
