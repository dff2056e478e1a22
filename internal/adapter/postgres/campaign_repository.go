package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"crowdfund/internal/core/domain"
)

const campaignColumns = `id, title, owner, goal::text, deadline, total_raised::text, finalized, successful, created_at`

type campaignRepository txn

// Create allocates ids from the campaign_seq row so that a rolled back
// transaction never leaves a gap.
func (r campaignRepository) Create(ctx context.Context, draft domain.CampaignDraft, now time.Time) (domain.Campaign, error) {
	if err := draft.Validate(); err != nil {
		return domain.Campaign{}, err
	}
	var id int64
	err := r.tx.QueryRow(ctx, `UPDATE campaign_seq SET last_id = last_id + 1 WHERE singleton RETURNING last_id`).Scan(&id)
	if err != nil {
		return domain.Campaign{}, err
	}
	c := draft.Build(id, now)
	_, err = r.tx.Exec(ctx, `INSERT INTO campaigns (id, title, owner, goal, deadline, total_raised, created_at)
VALUES ($1, $2, $3, $4::numeric, $5, 0, $6)`,
		c.ID, c.Title, string(c.Owner), c.Goal.String(), c.Deadline, c.CreatedAt)
	if err != nil {
		return domain.Campaign{}, err
	}
	return c, nil
}

func (r campaignRepository) Get(ctx context.Context, id int64) (domain.Campaign, error) {
	return r.get(ctx, id, false)
}

// get reads a campaign; lock takes a row lock for the rest of the
// transaction.
func (r campaignRepository) get(ctx context.Context, id int64, lock bool) (domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	rows, err := r.tx.Query(ctx, query, id)
	if err != nil {
		return domain.Campaign{}, err
	}
	c, err := pgx.CollectExactlyOneRow(rows, scanCampaign)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Campaign{}, domain.ErrNotFound
	}
	return c, err
}

func (r campaignRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.tx.QueryRow(ctx, `SELECT last_id FROM campaign_seq WHERE singleton`).Scan(&n)
	return n, err
}

func (r campaignRepository) List(ctx context.Context, from int64, limit int) ([]domain.Campaign, error) {
	if from < 1 {
		from = 1
	}
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id >= $1 ORDER BY id`
	args := []any{from}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanCampaign)
}

func (r campaignRepository) MarkFinalized(ctx context.Context, id int64, successful bool) error {
	c, err := r.get(ctx, id, true)
	if err != nil {
		return err
	}
	if c.Finalized {
		return domain.ErrAlreadyFinalized
	}
	tag, err := r.tx.Exec(ctx, `UPDATE campaigns SET finalized = TRUE, successful = $2 WHERE id = $1 AND NOT finalized`, id, successful)
	if err != nil {
		return err
	}
	return expectOne(tag, "mark finalized")
}

func (r campaignRepository) RevertFinalization(ctx context.Context, id int64) error {
	tag, err := r.tx.Exec(ctx, `UPDATE campaigns SET finalized = FALSE, successful = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanCampaign(row pgx.CollectableRow) (domain.Campaign, error) {
	var (
		c            domain.Campaign
		owner        string
		goal, raised string
	)
	err := row.Scan(&c.ID, &c.Title, &owner, &goal, &c.Deadline, &raised, &c.Finalized, &c.Successful, &c.CreatedAt)
	if err != nil {
		return c, err
	}
	c.Owner = domain.Account(owner)
	c.Deadline, c.CreatedAt = c.Deadline.UTC(), c.CreatedAt.UTC()
	if c.Goal, err = parseAmount(goal); err != nil {
		return c, err
	}
	c.TotalRaised, err = parseAmount(raised)
	return c, err
}
