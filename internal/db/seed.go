package db

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

// demoCampaigns mirror what a fresh test network deployment usually shows:
// a short campaign that is about to end and a couple of longer ones.
var demoCampaigns = []struct {
	title    string
	goalWei  string
	duration int64
}{
	{"Community Garden", "2000000000000000000", 300},
	{"Open Source Audio Plugin", "5000000000000000000", 7 * 24 * 3600},
	{"Local Library Roof", "10000000000000000000", 30 * 24 * 3600},
}

// Seed creates the demo campaigns through the engine when no campaign
// exists yet, so every invariant the engine enforces holds for seeded data
// too. It returns the number of campaigns created.
func Seed(ctx context.Context, campaigns port.CampaignUseCase, owner domain.Account) (int, error) {
	count, err := campaigns.CampaignCount(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}
	for i, c := range demoCampaigns {
		goal, err := decimal.NewFromString(c.goalWei)
		if err != nil {
			return i, err
		}
		if _, err = campaigns.CreateCampaign(ctx, owner, c.title, goal, c.duration); err != nil {
			return i, fmt.Errorf("seed campaign %q: %w", c.title, err)
		}
	}
	return len(demoCampaigns), nil
}
