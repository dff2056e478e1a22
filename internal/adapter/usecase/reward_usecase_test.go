package usecase

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"crowdfund/internal/adapter/memory"
	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
	"crowdfund/internal/core/port/mocks"
)

var ledgerSetup = domain.RewardLedgerSetup{Owner: deployer, Name: "RewardToken", Symbol: "RWT", Decimals: 18}

func TestSetMinterIsOwnerOnly(t *testing.T) {
	u := NewRewardUseCase(memory.NewStore(), nil, nil)
	ctx := context.Background()
	if _, err := u.Bootstrap(ctx, ledgerSetup, ""); err != nil {
		t.Fatalf("Bootstrap error: %v", err)
	}

	wantErr(t, u.SetMinter(ctx, alice, alice), domain.ErrNotOwner)
	wantErr(t, u.SetMinter(ctx, "", alice), domain.ErrNotOwner)
	wantErr(t, u.SetMinter(ctx, deployer, ""), domain.ErrInvalidAccount)

	if err := u.SetMinter(ctx, deployer, engineID); err != nil {
		t.Fatalf("SetMinter error: %v", err)
	}
	// The owner may replace the minter any number of times.
	if err := u.SetMinter(ctx, deployer, bob); err != nil {
		t.Fatalf("SetMinter error: %v", err)
	}
	info, _ := u.Info(ctx)
	if info.Minter != bob || info.Owner != deployer {
		t.Fatalf("unexpected ledger info %+v", info)
	}
}

func TestMintIsMinterOnly(t *testing.T) {
	u := NewRewardUseCase(memory.NewStore(), nil, nil)
	ctx := context.Background()
	if _, err := u.Bootstrap(ctx, ledgerSetup, engineID); err != nil {
		t.Fatalf("Bootstrap error: %v", err)
	}
	amount := decimal.NewFromInt(1234)

	wantErr(t, u.Mint(ctx, alice, alice, amount), domain.ErrNotMinter)
	wantErr(t, u.Mint(ctx, deployer, alice, amount), domain.ErrNotMinter)
	wantErr(t, u.Mint(ctx, engineID, alice, decimal.Zero), domain.ErrInvalidAmount)
	wantErr(t, u.Mint(ctx, engineID, "", amount), domain.ErrInvalidAccount)

	if err := u.Mint(ctx, engineID, alice, amount); err != nil {
		t.Fatalf("Mint error: %v", err)
	}
	bal, _ := u.BalanceOf(ctx, alice)
	amountEq(t, "alice balance", bal, amount)
	info, _ := u.Info(ctx)
	amountEq(t, "total supply", info.TotalSupply, amount)
}

func TestBootstrapKeepsExistingLedger(t *testing.T) {
	store := memory.NewStore()
	u := NewRewardUseCase(store, nil, nil)
	ctx := context.Background()

	info, err := u.Bootstrap(ctx, ledgerSetup, engineID)
	if err != nil {
		t.Fatalf("Bootstrap error: %v", err)
	}
	if info.Minter != engineID || info.Symbol != "RWT" || info.Decimals != 18 {
		t.Fatalf("unexpected ledger %+v", info)
	}
	if err = u.SetMinter(ctx, deployer, bob); err != nil {
		t.Fatalf("SetMinter error: %v", err)
	}

	again, err := u.Bootstrap(ctx, domain.RewardLedgerSetup{Owner: alice, Name: "Other", Symbol: "OTH"}, engineID)
	if err != nil {
		t.Fatalf("second Bootstrap error: %v", err)
	}
	if again.Owner != deployer || again.Symbol != "RWT" || again.Minter != bob {
		t.Fatalf("restart must not change the ledger, got %+v", again)
	}
}

func TestBootstrapRejectsInvalidSetup(t *testing.T) {
	u := NewRewardUseCase(memory.NewStore(), nil, nil)
	_, err := u.Bootstrap(context.Background(), domain.RewardLedgerSetup{Owner: deployer}, "")
	wantErr(t, err, domain.ErrInvalidLedgerSetup)

	_, err = u.Info(context.Background())
	wantErr(t, err, port.ErrLedgerUninitialised)
}

func TestMintPublishesEvent(t *testing.T) {
	pub := mocks.NewMockEventPublisher(t)
	u := NewRewardUseCase(memory.NewStore(), pub, nil)
	ctx := context.Background()
	if _, err := u.Bootstrap(ctx, ledgerSetup, engineID); err != nil {
		t.Fatalf("Bootstrap error: %v", err)
	}

	pub.EXPECT().
		Publish(mock.Anything, mock.MatchedBy(func(ev domain.Event) bool {
			return ev.Type == domain.EventRewardMinted && ev.Account == alice && ev.Amount.Equal(decimal.NewFromInt(5))
		})).
		Return(nil).
		Once()

	if err := u.Mint(ctx, engineID, alice, decimal.NewFromInt(5)); err != nil {
		t.Fatalf("Mint error: %v", err)
	}
	// A rejected mint publishes nothing.
	wantErr(t, u.Mint(ctx, alice, alice, decimal.NewFromInt(5)), domain.ErrNotMinter)
}

func TestMintCannotOverflowSupply(t *testing.T) {
	u := NewRewardUseCase(memory.NewStore(), nil, nil)
	ctx := context.Background()
	if _, err := u.Bootstrap(ctx, ledgerSetup, engineID); err != nil {
		t.Fatalf("Bootstrap error: %v", err)
	}

	wantErr(t, u.Mint(ctx, engineID, alice, decimal.New(1, 80)), domain.ErrInvalidAmount)
	if err := u.Mint(ctx, engineID, alice, domain.MaxAmount); err != nil {
		t.Fatalf("Mint error: %v", err)
	}
	wantErr(t, u.Mint(ctx, engineID, bob, decimal.NewFromInt(1)), domain.ErrInvalidAmount)

	info, _ := u.Info(ctx)
	amountEq(t, "total supply", info.TotalSupply, domain.MaxAmount)
	bal, _ := u.BalanceOf(ctx, bob)
	amountEq(t, "bob balance", bal, decimal.Zero)
}
