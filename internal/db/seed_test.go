package db

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"crowdfund/internal/adapter/memory"
	"crowdfund/internal/adapter/treasury"
	"crowdfund/internal/adapter/usecase"
)

func TestSeedCreatesDemoCampaignsOnce(t *testing.T) {
	ctx := context.Background()
	engine := usecase.NewCampaignUseCase(usecase.Dependencies{
		Store:    memory.NewStore(),
		Treasury: treasury.NewLedger(nil),
		Identity: "crowdfunding",
	})

	n, err := Seed(ctx, engine, "deployer")
	require.NoError(t, err)
	require.Equal(t, len(demoCampaigns), n)

	n, err = Seed(ctx, engine, "deployer")
	require.NoError(t, err)
	require.Zero(t, n)

	count, err := engine.CampaignCount(ctx)
	require.NoError(t, err)
	require.EqualValues(t, len(demoCampaigns), count)

	c, err := engine.Campaign(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, "Community Garden", c.Title)
}
