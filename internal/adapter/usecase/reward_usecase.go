package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

// RewardUseCase implements port.RewardUseCase. The ledger has two roles:
// an owner fixed when the ledger is initialised and a minter the owner may
// replace. Every mint checks the caller against the current minter.
type RewardUseCase struct {
	store  port.Store
	events port.EventPublisher
	logger *slog.Logger
	nowFn  func() time.Time
}

// NewRewardUseCase creates the reward ledger use case. events and logger
// may be nil.
func NewRewardUseCase(store port.Store, events port.EventPublisher, logger *slog.Logger) *RewardUseCase {
	if events == nil {
		events = nopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RewardUseCase{store: store, events: events, logger: logger, nowFn: time.Now}
}

// Bootstrap initialises the ledger if it does not exist yet and, when
// minter is set and the ledger has no minter, assigns it on behalf of the
// owner. It is idempotent across restarts.
func (u *RewardUseCase) Bootstrap(ctx context.Context, setup domain.RewardLedgerSetup, minter domain.Account) (domain.RewardLedgerInfo, error) {
	var info domain.RewardLedgerInfo
	err := u.store.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
		var err error
		if info, err = tx.Rewards().Init(ctx, setup); err != nil {
			return err
		}
		if minter.IsZero() || !info.Minter.IsZero() {
			return nil
		}
		if err = setMinter(ctx, tx.Rewards(), info.Owner, minter); err != nil {
			return err
		}
		info.Minter = minter
		return nil
	})
	return info, err
}

// SetMinter replaces the minter. Only the ledger owner may call it.
func (u *RewardUseCase) SetMinter(ctx context.Context, caller, minter domain.Account) error {
	err := u.store.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
		return setMinter(ctx, tx.Rewards(), caller, minter)
	})
	if err != nil {
		return err
	}
	publish(ctx, u.events, u.logger, []domain.Event{
		domain.NewEvent(domain.EventRewardMinterSet, 0, minter, decimal.Zero, u.nowFn()),
	})
	return nil
}

// Mint credits amount of reward credit to account. Only the current minter
// may call it.
func (u *RewardUseCase) Mint(ctx context.Context, caller, account domain.Account, amount decimal.Decimal) error {
	err := u.store.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
		return mint(ctx, tx.Rewards(), caller, account, amount)
	})
	if err != nil {
		return err
	}
	publish(ctx, u.events, u.logger, []domain.Event{
		domain.NewEvent(domain.EventRewardMinted, 0, account, amount, u.nowFn()),
	})
	return nil
}

// BalanceOf returns the reward-credit balance of account.
func (u *RewardUseCase) BalanceOf(ctx context.Context, account domain.Account) (decimal.Decimal, error) {
	var bal decimal.Decimal
	err := u.store.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
		var err error
		bal, err = tx.Rewards().BalanceOf(ctx, account)
		return err
	})
	return bal, err
}

// Info returns the ledger metadata, owner, minter and total supply.
func (u *RewardUseCase) Info(ctx context.Context) (domain.RewardLedgerInfo, error) {
	var info domain.RewardLedgerInfo
	err := u.store.Atomic(ctx, func(ctx context.Context, tx port.Tx) error {
		var err error
		info, err = tx.Rewards().Info(ctx)
		return err
	})
	return info, err
}

func setMinter(ctx context.Context, repo port.RewardRepository, caller, minter domain.Account) error {
	info, err := repo.Info(ctx)
	if err != nil {
		return err
	}
	if caller.IsZero() || caller != info.Owner {
		return domain.ErrNotOwner
	}
	if minter.IsZero() {
		return domain.ErrInvalidAccount
	}
	return repo.SetMinter(ctx, minter)
}

// mint is shared with the campaign engine, which calls it inside its own
// transaction so that clearing a pending reward and minting it commit
// together.
func mint(ctx context.Context, repo port.RewardRepository, caller, account domain.Account, amount decimal.Decimal) error {
	info, err := repo.Info(ctx)
	if err != nil {
		return err
	}
	if caller.IsZero() || caller != info.Minter {
		return domain.ErrNotMinter
	}
	if account.IsZero() {
		return domain.ErrInvalidAccount
	}
	if !domain.IsPositiveWhole(amount) {
		return domain.ErrInvalidAmount
	}
	return repo.Credit(ctx, account, amount)
}
