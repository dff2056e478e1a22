package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

// Dependencies wires the campaign engine. Store must be the store holding
// the reward ledger too. Identity is the engine's account, the one the
// reward ledger must list as minter.
type Dependencies struct {
	Store    port.Store
	Treasury port.Treasury
	Events   port.EventPublisher
	Logger   *slog.Logger
	Identity domain.Account
	Now      func() time.Time
}

// CampaignUseCase is the crowdfunding state machine. It is the only writer
// of campaigns and contributions and the only caller of the reward mint.
//
// Each mutating operation validates, commits its ledger changes and only
// then moves funds. If the transfer fails a compensating transaction puts
// the ledger back, so a failed payout never leaves a campaign finalized
// and a failed refund never loses a contribution.
type CampaignUseCase struct {
	store    port.Store
	treasury port.Treasury
	events   port.EventPublisher
	logger   *slog.Logger
	identity domain.Account
	nowFn    func() time.Time
	gate     gate
}

// NewCampaignUseCase creates the engine from deps. Nil Events, Logger and
// Now fall back to a no-op publisher, slog.Default and time.Now.
func NewCampaignUseCase(deps Dependencies) *CampaignUseCase {
	u := &CampaignUseCase{
		store:    deps.Store,
		treasury: deps.Treasury,
		events:   deps.Events,
		logger:   deps.Logger,
		identity: deps.Identity,
		nowFn:    deps.Now,
	}
	if u.events == nil {
		u.events = nopPublisher{}
	}
	if u.logger == nil {
		u.logger = slog.Default()
	}
	if u.nowFn == nil {
		u.nowFn = time.Now
	}
	return u
}

// run executes op under the engine gate and publishes its events once the
// gate is released.
func (u *CampaignUseCase) run(ctx context.Context, op func(ctx context.Context) ([]domain.Event, error)) error {
	ctx, leave := u.gate.enter(ctx)
	events, err := func() ([]domain.Event, error) {
		defer leave()
		return op(ctx)
	}()
	if err != nil {
		return err
	}
	publish(ctx, u.events, u.logger, events)
	return nil
}

// transfer performs an outbound or inbound funds movement after the ledger
// effects committed. On failure it runs compensate in a new transaction and
// returns the transfer error.
func (u *CampaignUseCase) transfer(ctx context.Context, op string, move func(ctx context.Context) error, compensate func(ctx context.Context, tx port.Tx) error) error {
	err := move(ctx)
	if err == nil {
		return nil
	}
	err = fmt.Errorf("%s: %w", op, err)
	if cerr := u.store.Atomic(context.WithoutCancel(ctx), compensate); cerr != nil {
		u.logger.Error("compensation error",
			slog.String("op", op),
			slog.Any("transfer_error", err),
			slog.Any("error", cerr))
		return errors.Join(err, fmt.Errorf("compensate %s: %w", op, cerr))
	}
	u.logger.Warn("transfer failed, ledger restored", slog.String("op", op), slog.Any("error", err))
	return err
}

// CreateCampaign validates the draft and stores a new campaign owned by
// caller with deadline now + durationSeconds. It returns the sequential id.
func (u *CampaignUseCase) CreateCampaign(ctx context.Context, caller domain.Account, title string, goal decimal.Decimal, durationSeconds int64) (int64, error) {
	var camp domain.Campaign
	err := u.run(ctx, func(ctx context.Context) ([]domain.Event, error) {
		draft := domain.CampaignDraft{Title: title, Owner: caller, Goal: goal, DurationSeconds: durationSeconds}
		err := u.store.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
			var err error
			camp, err = tx.Campaigns().Create(ctx, draft, u.nowFn())
			return err
		})
		if err != nil {
			return nil, err
		}
		return []domain.Event{
			domain.NewEvent(domain.EventCampaignCreated, camp.ID, camp.Owner, camp.Goal, camp.CreatedAt),
		}, nil
	})
	if err != nil {
		return 0, err
	}
	return camp.ID, nil
}

// Contribute records amount against the caller's contribution and pending
// reward, then collects the funds into custody. A failed collect reverts
// the ledger and returns the transfer error.
func (u *CampaignUseCase) Contribute(ctx context.Context, caller domain.Account, campaignID int64, amount decimal.Decimal) error {
	if caller.IsZero() {
		return domain.ErrUnauthenticated
	}
	return u.run(ctx, func(ctx context.Context) ([]domain.Event, error) {
		now := u.nowFn()
		err := u.store.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
			camp, err := tx.Campaigns().Get(ctx, campaignID)
			if err != nil {
				return err
			}
			if !domain.IsPositiveWhole(amount) {
				return domain.ErrInvalidAmount
			}
			// Finalization needs the deadline to have passed, so this also
			// rejects finalized campaigns.
			if camp.Ended(now) {
				return domain.ErrEnded
			}
			_, err = tx.Contributions().RecordContribution(ctx, campaignID, caller, amount)
			return err
		})
		if err != nil {
			return nil, err
		}
		err = u.transfer(ctx, "collect contribution",
			func(ctx context.Context) error { return u.treasury.Collect(ctx, caller, amount) },
			func(ctx context.Context, tx port.Tx) error {
				return tx.Contributions().RevertContribution(ctx, campaignID, caller, amount)
			})
		if err != nil {
			return nil, err
		}
		return []domain.Event{
			domain.NewEvent(domain.EventCampaignContributed, campaignID, caller, amount, now),
		}, nil
	})
}

// FinalizeCampaign settles a campaign whose deadline has passed. A
// successful campaign pays totalRaised to its owner; if that payout fails
// the campaign is left unfinalized so finalization can be retried.
func (u *CampaignUseCase) FinalizeCampaign(ctx context.Context, campaignID int64) (domain.Campaign, error) {
	var camp domain.Campaign
	err := u.run(ctx, func(ctx context.Context) ([]domain.Event, error) {
		now := u.nowFn()
		err := u.store.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
			var err error
			if camp, err = tx.Campaigns().Get(ctx, campaignID); err != nil {
				return err
			}
			if !camp.Ended(now) {
				return domain.ErrNotEnded
			}
			if camp.Finalized {
				return domain.ErrAlreadyFinalized
			}
			camp.Finalized, camp.Successful = true, camp.GoalReached()
			return tx.Campaigns().MarkFinalized(ctx, campaignID, camp.Successful)
		})
		if err != nil {
			return nil, err
		}
		if camp.Successful {
			err = u.transfer(ctx, "pay campaign owner",
				func(ctx context.Context) error { return u.treasury.Pay(ctx, camp.Owner, camp.TotalRaised) },
				func(ctx context.Context, tx port.Tx) error {
					return tx.Campaigns().RevertFinalization(ctx, campaignID)
				})
			if err != nil {
				return nil, err
			}
		}
		ev := domain.NewEvent(domain.EventCampaignFinalized, campaignID, camp.Owner, camp.TotalRaised, now)
		ev.Successful = &camp.Successful
		return []domain.Event{ev}, nil
	})
	if err != nil {
		return domain.Campaign{}, err
	}
	return camp, nil
}

// ClaimReward clears the caller's pending reward on a successful campaign
// and mints it as reward credit in the same transaction. It returns the
// amount minted.
func (u *CampaignUseCase) ClaimReward(ctx context.Context, caller domain.Account, campaignID int64) (decimal.Decimal, error) {
	if caller.IsZero() {
		return decimal.Zero, domain.ErrUnauthenticated
	}
	var minted decimal.Decimal
	err := u.run(ctx, func(ctx context.Context) ([]domain.Event, error) {
		err := u.store.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
			camp, err := tx.Campaigns().Get(ctx, campaignID)
			if err != nil {
				return err
			}
			if !camp.Finalized || !camp.Successful {
				return domain.ErrNotSuccessful
			}
			pending, err := tx.Contributions().PendingRewardOf(ctx, campaignID, caller)
			if err != nil {
				return err
			}
			if !pending.IsPositive() {
				return domain.ErrNothingToClaim
			}
			if minted, err = tx.Contributions().ClearPendingReward(ctx, campaignID, caller); err != nil {
				return err
			}
			return mint(ctx, tx.Rewards(), u.identity, caller, minted)
		})
		if err != nil {
			return nil, err
		}
		now := u.nowFn()
		return []domain.Event{
			domain.NewEvent(domain.EventRewardClaimed, campaignID, caller, minted, now),
			domain.NewEvent(domain.EventRewardMinted, campaignID, caller, minted, now),
		}, nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return minted, nil
}

// Refund zeroes the caller's contribution to a failed campaign and pays it
// back. The record is restored if the payout fails.
func (u *CampaignUseCase) Refund(ctx context.Context, caller domain.Account, campaignID int64) (decimal.Decimal, error) {
	if caller.IsZero() {
		return decimal.Zero, domain.ErrUnauthenticated
	}
	var removed domain.Contribution
	err := u.run(ctx, func(ctx context.Context) ([]domain.Event, error) {
		err := u.store.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
			camp, err := tx.Campaigns().Get(ctx, campaignID)
			if err != nil {
				return err
			}
			if !camp.Finalized {
				return domain.ErrNotEnded
			}
			if camp.Successful {
				return domain.ErrNotFailed
			}
			amount, err := tx.Contributions().ContributionOf(ctx, campaignID, caller)
			if err != nil {
				return err
			}
			if !amount.IsPositive() {
				return domain.ErrNothingToRefund
			}
			removed, err = tx.Contributions().ClearContribution(ctx, campaignID, caller)
			return err
		})
		if err != nil {
			return nil, err
		}
		err = u.transfer(ctx, "refund contribution",
			func(ctx context.Context) error { return u.treasury.Pay(ctx, caller, removed.Amount) },
			func(ctx context.Context, tx port.Tx) error {
				return tx.Contributions().RestoreContribution(ctx, removed)
			})
		if err != nil {
			return nil, err
		}
		return []domain.Event{
			domain.NewEvent(domain.EventContributionRefunded, campaignID, caller, removed.Amount, u.nowFn()),
		}, nil
	})
	if err != nil {
		return decimal.Zero, err
	}
	return removed.Amount, nil
}

// CampaignCount returns the number of campaigns, which is also the highest
// id.
func (u *CampaignUseCase) CampaignCount(ctx context.Context) (int64, error) {
	var n int64
	err := u.read(ctx, func(ctx context.Context, tx port.Tx) error {
		var err error
		n, err = tx.Campaigns().Count(ctx)
		return err
	})
	return n, err
}

// Campaign returns one campaign or domain.ErrNotFound.
func (u *CampaignUseCase) Campaign(ctx context.Context, campaignID int64) (domain.Campaign, error) {
	var camp domain.Campaign
	err := u.read(ctx, func(ctx context.Context, tx port.Tx) error {
		var err error
		camp, err = tx.Campaigns().Get(ctx, campaignID)
		return err
	})
	return camp, err
}

// ListCampaigns returns up to limit campaigns starting at id from with
// their current state. When viewer is set each view carries the viewer's
// contribution and pending reward.
func (u *CampaignUseCase) ListCampaigns(ctx context.Context, viewer domain.Account, from int64, limit int) ([]port.CampaignView, error) {
	var views []port.CampaignView
	err := u.read(ctx, func(ctx context.Context, tx port.Tx) error {
		camps, err := tx.Campaigns().List(ctx, from, limit)
		if err != nil {
			return err
		}
		now := u.nowFn()
		views = make([]port.CampaignView, 0, len(camps))
		for _, c := range camps {
			view := port.CampaignView{Campaign: c, State: c.State(now), Contribution: decimal.Zero, PendingReward: decimal.Zero}
			if !viewer.IsZero() {
				row, err := tx.Contributions().Get(ctx, c.ID, viewer)
				if err != nil {
					return err
				}
				view.Contribution, view.PendingReward = row.Amount, row.PendingReward
			}
			views = append(views, view)
		}
		return nil
	})
	return views, err
}

// Contribution returns the amount account has contributed to a campaign.
func (u *CampaignUseCase) Contribution(ctx context.Context, campaignID int64, account domain.Account) (decimal.Decimal, error) {
	row, err := u.contribution(ctx, campaignID, account)
	return row.Amount, err
}

// PendingReward returns the unclaimed reward credit of account.
func (u *CampaignUseCase) PendingReward(ctx context.Context, campaignID int64, account domain.Account) (decimal.Decimal, error) {
	row, err := u.contribution(ctx, campaignID, account)
	return row.PendingReward, err
}

func (u *CampaignUseCase) contribution(ctx context.Context, campaignID int64, account domain.Account) (domain.Contribution, error) {
	var row domain.Contribution
	err := u.read(ctx, func(ctx context.Context, tx port.Tx) error {
		if _, err := tx.Campaigns().Get(ctx, campaignID); err != nil {
			return err
		}
		var err error
		row, err = tx.Contributions().Get(ctx, campaignID, account)
		return err
	})
	return row, err
}

// read runs a query under the gate so it never observes a committed effect
// whose transfer is still in flight elsewhere.
func (u *CampaignUseCase) read(ctx context.Context, fn func(ctx context.Context, tx port.Tx) error) error {
	ctx, leave := u.gate.enter(ctx)
	defer leave()
	return u.store.Atomic(ctx, fn)
}
