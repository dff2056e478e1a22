package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

type rewardRepository txn

func (r rewardRepository) Init(ctx context.Context, setup domain.RewardLedgerSetup) (domain.RewardLedgerInfo, error) {
	info, err := r.Info(ctx)
	if !errors.Is(err, port.ErrLedgerUninitialised) {
		return info, err
	}
	if err = setup.Validate(); err != nil {
		return domain.RewardLedgerInfo{}, err
	}
	_, err = r.tx.Exec(ctx, `INSERT INTO reward_ledger (singleton, owner, name, symbol, decimals, total_supply)
VALUES (TRUE, $1, $2, $3, $4, 0) ON CONFLICT DO NOTHING`,
		string(setup.Owner), setup.Name, setup.Symbol, int16(setup.Decimals))
	if err != nil {
		return domain.RewardLedgerInfo{}, err
	}
	return r.Info(ctx)
}

func (r rewardRepository) Info(ctx context.Context) (domain.RewardLedgerInfo, error) {
	var (
		info          domain.RewardLedgerInfo
		owner, minter string
		decimals      int16
		supply        string
	)
	err := r.tx.QueryRow(ctx, `SELECT owner, minter, name, symbol, decimals, total_supply::text FROM reward_ledger WHERE singleton`).
		Scan(&owner, &minter, &info.Name, &info.Symbol, &decimals, &supply)
	if errors.Is(err, pgx.ErrNoRows) {
		return info, port.ErrLedgerUninitialised
	}
	if err != nil {
		return info, err
	}
	info.Owner, info.Minter, info.Decimals = domain.Account(owner), domain.Account(minter), uint8(decimals)
	info.TotalSupply, err = parseAmount(supply)
	return info, err
}

func (r rewardRepository) SetMinter(ctx context.Context, minter domain.Account) error {
	tag, err := r.tx.Exec(ctx, `UPDATE reward_ledger SET minter = $1 WHERE singleton`, string(minter))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrLedgerUninitialised
	}
	return nil
}

func (r rewardRepository) Credit(ctx context.Context, account domain.Account, amount decimal.Decimal) error {
	info, err := r.Info(ctx)
	if err != nil {
		return err
	}
	if _, err = domain.AddAmounts(info.TotalSupply, amount); err != nil {
		return err
	}
	tag, err := r.tx.Exec(ctx, `UPDATE reward_ledger SET total_supply = total_supply + $1::numeric WHERE singleton`, amount.String())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return port.ErrLedgerUninitialised
	}
	_, err = r.tx.Exec(ctx, `INSERT INTO reward_balances (account, balance) VALUES ($1, $2::numeric)
ON CONFLICT (account) DO UPDATE SET balance = reward_balances.balance + EXCLUDED.balance`,
		string(account), amount.String())
	return err
}

func (r rewardRepository) BalanceOf(ctx context.Context, account domain.Account) (decimal.Decimal, error) {
	var bal string
	err := r.tx.QueryRow(ctx, `SELECT balance::text FROM reward_balances WHERE account = $1`, string(account)).Scan(&bal)
	if errors.Is(err, pgx.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return parseAmount(bal)
}
