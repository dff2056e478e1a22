package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
)

type contributionRepository txn

func (r contributionRepository) campaigns() campaignRepository { return campaignRepository(r) }

func (r contributionRepository) RecordContribution(ctx context.Context, id int64, contributor domain.Account, amount decimal.Decimal) (domain.Contribution, error) {
	if !domain.IsPositiveWhole(amount) {
		return domain.Contribution{}, domain.ErrInvalidAmount
	}
	camp, err := r.campaigns().get(ctx, id, true)
	if err != nil {
		return domain.Contribution{}, err
	}
	prev, err := r.get(ctx, id, contributor, true)
	if err != nil {
		return domain.Contribution{}, err
	}
	// bound the results before writing so overflow reports like the memory store
	if _, err = domain.AddAmounts(prev.Amount, amount); err != nil {
		return domain.Contribution{}, err
	}
	if _, err = domain.AddAmounts(prev.PendingReward, domain.RewardFor(amount)); err != nil {
		return domain.Contribution{}, err
	}
	if _, err = domain.AddAmounts(camp.TotalRaised, amount); err != nil {
		return domain.Contribution{}, err
	}
	row := domain.Contribution{CampaignID: id, Contributor: contributor}
	var amt, pending string
	err = r.tx.QueryRow(ctx, `INSERT INTO contributions (campaign_id, account, amount, pending_reward)
VALUES ($1, $2, $3::numeric, $4::numeric)
ON CONFLICT (campaign_id, account) DO UPDATE
SET amount = contributions.amount + EXCLUDED.amount,
    pending_reward = contributions.pending_reward + EXCLUDED.pending_reward
RETURNING amount::text, pending_reward::text`,
		id, string(contributor), amount.String(), domain.RewardFor(amount).String()).Scan(&amt, &pending)
	if err != nil {
		return domain.Contribution{}, err
	}
	if row.Amount, err = parseAmount(amt); err != nil {
		return domain.Contribution{}, err
	}
	if row.PendingReward, err = parseAmount(pending); err != nil {
		return domain.Contribution{}, err
	}
	tag, err := r.tx.Exec(ctx, `UPDATE campaigns SET total_raised = total_raised + $2::numeric WHERE id = $1`, id, amount.String())
	if err != nil {
		return domain.Contribution{}, err
	}
	return row, expectOne(tag, "add to total raised")
}

func (r contributionRepository) Get(ctx context.Context, id int64, contributor domain.Account) (domain.Contribution, error) {
	return r.get(ctx, id, contributor, false)
}

func (r contributionRepository) get(ctx context.Context, id int64, contributor domain.Account, lock bool) (domain.Contribution, error) {
	row := domain.Contribution{CampaignID: id, Contributor: contributor, Amount: decimal.Zero, PendingReward: decimal.Zero}
	query := `SELECT amount::text, pending_reward::text FROM contributions WHERE campaign_id = $1 AND account = $2`
	if lock {
		query += ` FOR UPDATE`
	}
	var amt, pending string
	err := r.tx.QueryRow(ctx, query, id, string(contributor)).Scan(&amt, &pending)
	if errors.Is(err, pgx.ErrNoRows) {
		return row, nil
	}
	if err != nil {
		return row, err
	}
	if row.Amount, err = parseAmount(amt); err != nil {
		return row, err
	}
	row.PendingReward, err = parseAmount(pending)
	return row, err
}

func (r contributionRepository) ContributionOf(ctx context.Context, id int64, contributor domain.Account) (decimal.Decimal, error) {
	row, err := r.Get(ctx, id, contributor)
	return row.Amount, err
}

func (r contributionRepository) PendingRewardOf(ctx context.Context, id int64, contributor domain.Account) (decimal.Decimal, error) {
	row, err := r.Get(ctx, id, contributor)
	return row.PendingReward, err
}

func (r contributionRepository) ClearContribution(ctx context.Context, id int64, contributor domain.Account) (domain.Contribution, error) {
	removed, err := r.get(ctx, id, contributor, true)
	if err != nil {
		return domain.Contribution{}, err
	}
	_, err = r.tx.Exec(ctx, `DELETE FROM contributions WHERE campaign_id = $1 AND account = $2`, id, string(contributor))
	if err != nil {
		return domain.Contribution{}, err
	}
	return removed, nil
}

func (r contributionRepository) ClearPendingReward(ctx context.Context, id int64, contributor domain.Account) (decimal.Decimal, error) {
	row, err := r.get(ctx, id, contributor, true)
	if err != nil {
		return decimal.Zero, err
	}
	if row.PendingReward.IsZero() {
		return decimal.Zero, nil
	}
	_, err = r.tx.Exec(ctx, `UPDATE contributions SET pending_reward = 0 WHERE campaign_id = $1 AND account = $2`, id, string(contributor))
	if err != nil {
		return decimal.Zero, err
	}
	return row.PendingReward, nil
}

func (r contributionRepository) RevertContribution(ctx context.Context, id int64, contributor domain.Account, amount decimal.Decimal) error {
	reward := domain.RewardFor(amount)
	tag, err := r.tx.Exec(ctx, `UPDATE contributions
SET amount = amount - $3::numeric, pending_reward = pending_reward - $4::numeric
WHERE campaign_id = $1 AND account = $2 AND amount >= $3::numeric AND pending_reward >= $4::numeric`,
		id, string(contributor), amount.String(), reward.String())
	if err != nil {
		return err
	}
	if err = expectOne(tag, fmt.Sprintf("revert contribution to campaign %d", id)); err != nil {
		return err
	}
	tag, err = r.tx.Exec(ctx, `UPDATE campaigns SET total_raised = total_raised - $2::numeric
WHERE id = $1 AND total_raised >= $2::numeric`, id, amount.String())
	if err != nil {
		return err
	}
	return expectOne(tag, "subtract from total raised")
}

func (r contributionRepository) RestoreContribution(ctx context.Context, c domain.Contribution) error {
	if _, err := r.campaigns().get(ctx, c.CampaignID, false); err != nil {
		return err
	}
	_, err := r.tx.Exec(ctx, `INSERT INTO contributions (campaign_id, account, amount, pending_reward)
VALUES ($1, $2, $3::numeric, $4::numeric)
ON CONFLICT (campaign_id, account) DO UPDATE
SET amount = EXCLUDED.amount, pending_reward = EXCLUDED.pending_reward`,
		c.CampaignID, string(c.Contributor), c.Amount.String(), c.PendingReward.String())
	return err
}
