// Package memory implements the engine's outbound ports in process memory.
// It is the default store for development and the one used by tests.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

var errTxClosed = errors.New("memory: transaction already closed")

type contributionKey struct {
	campaignID int64
	account    domain.Account
}

// Store implements port.Store. Campaigns live in an arena indexed by id-1;
// contributions and balances are sparse maps. One mutex serializes
// transactions, and every mutation made inside a transaction registers an
// undo step that runs if the transaction fails.
type Store struct {
	mu            sync.Mutex
	campaigns     []domain.Campaign
	contributions map[contributionKey]domain.Contribution
	balances      map[domain.Account]decimal.Decimal
	ledger        *domain.RewardLedgerInfo
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		contributions: map[contributionKey]domain.Contribution{},
		balances:      map[domain.Account]decimal.Decimal{},
	}
}

// Atomic runs fn while holding the store lock and rolls back every change
// fn made if it returns an error or panics.
func (s *Store) Atomic(ctx context.Context, fn func(ctx context.Context, tx port.Tx) error) (err error) {
	if err = ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &txn{s: s}
	defer func() {
		if r := recover(); r != nil {
			tx.rollback()
			panic(r)
		}
		if err != nil {
			tx.rollback()
		}
		tx.closed = true
	}()
	return fn(ctx, tx)
}

type txn struct {
	s      *Store
	undo   []func()
	closed bool
}

func (t *txn) Campaigns() port.CampaignStore         { return campaignTable{t} }
func (t *txn) Contributions() port.ContributionLedger { return contributionTable{t} }
func (t *txn) Rewards() port.RewardRepository         { return rewardTable{t} }

func (t *txn) onRollback(fn func()) { t.undo = append(t.undo, fn) }

func (t *txn) rollback() {
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
}

func (t *txn) check(ctx context.Context) error {
	if t.closed {
		return errTxClosed
	}
	return ctx.Err()
}

func (t *txn) campaign(id int64) (*domain.Campaign, error) {
	if id < 1 || id > int64(len(t.s.campaigns)) {
		return nil, domain.ErrNotFound
	}
	return &t.s.campaigns[id-1], nil
}

type campaignTable struct{ *txn }

func (c campaignTable) Create(ctx context.Context, draft domain.CampaignDraft, now time.Time) (domain.Campaign, error) {
	if err := c.check(ctx); err != nil {
		return domain.Campaign{}, err
	}
	if err := draft.Validate(); err != nil {
		return domain.Campaign{}, err
	}
	camp := draft.Build(int64(len(c.s.campaigns))+1, now)
	c.s.campaigns = append(c.s.campaigns, camp)
	c.onRollback(func() { c.s.campaigns = c.s.campaigns[:camp.ID-1] })
	return camp, nil
}

func (c campaignTable) Get(ctx context.Context, id int64) (domain.Campaign, error) {
	if err := c.check(ctx); err != nil {
		return domain.Campaign{}, err
	}
	camp, err := c.campaign(id)
	if err != nil {
		return domain.Campaign{}, err
	}
	return *camp, nil
}

func (c campaignTable) Count(ctx context.Context) (int64, error) {
	if err := c.check(ctx); err != nil {
		return 0, err
	}
	return int64(len(c.s.campaigns)), nil
}

func (c campaignTable) List(ctx context.Context, from int64, limit int) ([]domain.Campaign, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}
	if from < 1 {
		from = 1
	}
	total := int64(len(c.s.campaigns))
	if from > total {
		return []domain.Campaign{}, nil
	}
	end := total
	if limit > 0 && from-1+int64(limit) < end {
		end = from - 1 + int64(limit)
	}
	out := make([]domain.Campaign, end-from+1)
	copy(out, c.s.campaigns[from-1:end])
	return out, nil
}

func (c campaignTable) MarkFinalized(ctx context.Context, id int64, successful bool) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	camp, err := c.campaign(id)
	if err != nil {
		return err
	}
	if camp.Finalized {
		return domain.ErrAlreadyFinalized
	}
	prev := *camp
	camp.Finalized, camp.Successful = true, successful
	c.onRollback(func() { c.s.campaigns[id-1] = prev })
	return nil
}

func (c campaignTable) RevertFinalization(ctx context.Context, id int64) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	camp, err := c.campaign(id)
	if err != nil {
		return err
	}
	prev := *camp
	camp.Finalized, camp.Successful = false, false
	c.onRollback(func() { c.s.campaigns[id-1] = prev })
	return nil
}

type contributionTable struct{ *txn }

func (c contributionTable) entry(id int64, account domain.Account) domain.Contribution {
	if row, ok := c.s.contributions[contributionKey{id, account}]; ok {
		return row
	}
	return domain.Contribution{CampaignID: id, Contributor: account, Amount: decimal.Zero, PendingReward: decimal.Zero}
}

// put writes row and registers the undo step restoring what was there.
func (c contributionTable) put(row domain.Contribution) {
	k := contributionKey{row.CampaignID, row.Contributor}
	prev, existed := c.s.contributions[k]
	if row.IsEmpty() {
		delete(c.s.contributions, k)
	} else {
		c.s.contributions[k] = row
	}
	c.onRollback(func() {
		if existed {
			c.s.contributions[k] = prev
		} else {
			delete(c.s.contributions, k)
		}
	})
}

func (c contributionTable) addRaised(camp *domain.Campaign, delta decimal.Decimal) {
	prev := camp.TotalRaised
	id := camp.ID
	camp.TotalRaised = prev.Add(delta)
	c.onRollback(func() { c.s.campaigns[id-1].TotalRaised = prev })
}

func (c contributionTable) RecordContribution(ctx context.Context, id int64, contributor domain.Account, amount decimal.Decimal) (domain.Contribution, error) {
	if err := c.check(ctx); err != nil {
		return domain.Contribution{}, err
	}
	if !domain.IsPositiveWhole(amount) {
		return domain.Contribution{}, domain.ErrInvalidAmount
	}
	camp, err := c.campaign(id)
	if err != nil {
		return domain.Contribution{}, err
	}
	row := c.entry(id, contributor)
	if row.Amount, err = domain.AddAmounts(row.Amount, amount); err != nil {
		return domain.Contribution{}, err
	}
	if row.PendingReward, err = domain.AddAmounts(row.PendingReward, domain.RewardFor(amount)); err != nil {
		return domain.Contribution{}, err
	}
	if _, err = domain.AddAmounts(camp.TotalRaised, amount); err != nil {
		return domain.Contribution{}, err
	}
	c.put(row)
	c.addRaised(camp, amount)
	return row, nil
}

func (c contributionTable) Get(ctx context.Context, id int64, contributor domain.Account) (domain.Contribution, error) {
	if err := c.check(ctx); err != nil {
		return domain.Contribution{}, err
	}
	return c.entry(id, contributor), nil
}

func (c contributionTable) ContributionOf(ctx context.Context, id int64, contributor domain.Account) (decimal.Decimal, error) {
	row, err := c.Get(ctx, id, contributor)
	return row.Amount, err
}

func (c contributionTable) PendingRewardOf(ctx context.Context, id int64, contributor domain.Account) (decimal.Decimal, error) {
	row, err := c.Get(ctx, id, contributor)
	return row.PendingReward, err
}

func (c contributionTable) ClearContribution(ctx context.Context, id int64, contributor domain.Account) (domain.Contribution, error) {
	if err := c.check(ctx); err != nil {
		return domain.Contribution{}, err
	}
	removed := c.entry(id, contributor)
	c.put(domain.Contribution{CampaignID: id, Contributor: contributor, Amount: decimal.Zero, PendingReward: decimal.Zero})
	return removed, nil
}

func (c contributionTable) ClearPendingReward(ctx context.Context, id int64, contributor domain.Account) (decimal.Decimal, error) {
	if err := c.check(ctx); err != nil {
		return decimal.Zero, err
	}
	row := c.entry(id, contributor)
	pending := row.PendingReward
	row.PendingReward = decimal.Zero
	c.put(row)
	return pending, nil
}

func (c contributionTable) RevertContribution(ctx context.Context, id int64, contributor domain.Account, amount decimal.Decimal) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	camp, err := c.campaign(id)
	if err != nil {
		return err
	}
	row := c.entry(id, contributor)
	reward := domain.RewardFor(amount)
	if row.Amount.LessThan(amount) || row.PendingReward.LessThan(reward) || camp.TotalRaised.LessThan(amount) {
		return fmt.Errorf("memory: revert contribution of %s to campaign %d: would go negative", amount, id)
	}
	row.Amount = row.Amount.Sub(amount)
	row.PendingReward = row.PendingReward.Sub(reward)
	c.put(row)
	c.addRaised(camp, amount.Neg())
	return nil
}

func (c contributionTable) RestoreContribution(ctx context.Context, row domain.Contribution) error {
	if err := c.check(ctx); err != nil {
		return err
	}
	if _, err := c.campaign(row.CampaignID); err != nil {
		return err
	}
	c.put(row)
	return nil
}

type rewardTable struct{ *txn }

func (r rewardTable) Init(ctx context.Context, setup domain.RewardLedgerSetup) (domain.RewardLedgerInfo, error) {
	if err := r.check(ctx); err != nil {
		return domain.RewardLedgerInfo{}, err
	}
	if r.s.ledger != nil {
		return *r.s.ledger, nil
	}
	if err := setup.Validate(); err != nil {
		return domain.RewardLedgerInfo{}, err
	}
	r.s.ledger = &domain.RewardLedgerInfo{
		Owner:       setup.Owner,
		Name:        setup.Name,
		Symbol:      setup.Symbol,
		Decimals:    setup.Decimals,
		TotalSupply: decimal.Zero,
	}
	r.onRollback(func() { r.s.ledger = nil })
	return *r.s.ledger, nil
}

func (r rewardTable) Info(ctx context.Context) (domain.RewardLedgerInfo, error) {
	if err := r.check(ctx); err != nil {
		return domain.RewardLedgerInfo{}, err
	}
	if r.s.ledger == nil {
		return domain.RewardLedgerInfo{}, port.ErrLedgerUninitialised
	}
	return *r.s.ledger, nil
}

func (r rewardTable) SetMinter(ctx context.Context, minter domain.Account) error {
	if err := r.check(ctx); err != nil {
		return err
	}
	if r.s.ledger == nil {
		return port.ErrLedgerUninitialised
	}
	prev := r.s.ledger.Minter
	r.s.ledger.Minter = minter
	r.onRollback(func() { r.s.ledger.Minter = prev })
	return nil
}

func (r rewardTable) Credit(ctx context.Context, account domain.Account, amount decimal.Decimal) error {
	if err := r.check(ctx); err != nil {
		return err
	}
	if r.s.ledger == nil {
		return port.ErrLedgerUninitialised
	}
	prevBalance, existed := r.s.balances[account]
	prevSupply := r.s.ledger.TotalSupply
	// balances never exceed the supply, so bounding the supply is enough
	supply, err := domain.AddAmounts(prevSupply, amount)
	if err != nil {
		return err
	}
	r.s.balances[account] = prevBalance.Add(amount)
	r.s.ledger.TotalSupply = supply
	r.onRollback(func() {
		r.s.ledger.TotalSupply = prevSupply
		if existed {
			r.s.balances[account] = prevBalance
		} else {
			delete(r.s.balances, account)
		}
	})
	return nil
}

func (r rewardTable) BalanceOf(ctx context.Context, account domain.Account) (decimal.Decimal, error) {
	if err := r.check(ctx); err != nil {
		return decimal.Zero, err
	}
	return r.s.balances[account], nil
}
