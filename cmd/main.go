package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/shopspring/decimal"

	"crowdfund/internal/adapter/events"
	"crowdfund/internal/adapter/http"
	"crowdfund/internal/adapter/memory"
	"crowdfund/internal/adapter/postgres"
	"crowdfund/internal/adapter/redis"
	"crowdfund/internal/adapter/security"
	"crowdfund/internal/adapter/treasury"
	"crowdfund/internal/adapter/usecase"
	"crowdfund/internal/config"
	"crowdfund/internal/config/configs"
	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
	"crowdfund/internal/db"
)

// main is the entry point of the crowdfunding service. It loads
// configuration, selects the store, bootstraps the reward ledger with the
// engine as minter, then starts the HTTP server. On receiving a termination
// signal it gracefully shuts down the server.
func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := slog.New(cfg.Log.Handler(os.Stdout, "crowdfund", cfg.Env))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err = run(ctx, cfg, logger); err != nil {
		logger.Error("service stopped", slog.Any("error", err))
		cancel()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, closeStore, err := openStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	genesis, err := cfg.Treasury.Balances()
	if err != nil {
		return err
	}
	balances := make(map[domain.Account]decimal.Decimal, len(genesis))
	for account, amount := range genesis {
		balances[domain.Account(account)] = amount
	}
	funds := treasury.NewLedger(balances)

	publisher, closePublisher, err := openPublisher(cfg.Kafka, logger)
	if err != nil {
		return err
	}
	defer closePublisher()

	idem, closeIdem, err := openIdempotency(ctx, cfg.Redis, logger)
	if err != nil {
		return err
	}
	defer closeIdem()

	var verifier httpadapter.TokenVerifier
	if cfg.Auth.JWTSecret != "" {
		if verifier, err = security.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer); err != nil {
			return err
		}
	} else {
		logger.Warn("AUTH_JWT_SECRET is empty, mutating routes will reject every request")
	}

	engineAccount := domain.Account(cfg.Engine.Account)
	rewards := usecase.NewRewardUseCase(store, publisher, logger)
	var minter domain.Account
	if cfg.Reward.BootstrapMinter {
		minter = engineAccount
	}
	info, err := rewards.Bootstrap(ctx, domain.RewardLedgerSetup{
		Owner:    domain.Account(cfg.Reward.Owner),
		Name:     cfg.Reward.Name,
		Symbol:   cfg.Reward.Symbol,
		Decimals: cfg.Reward.Decimals,
	}, minter)
	if err != nil {
		return fmt.Errorf("bootstrap reward ledger: %w", err)
	}
	if info.Minter != engineAccount {
		logger.Warn("engine is not the reward minter, reward claims will fail",
			slog.String("engine", engineAccount.String()),
			slog.String("minter", info.Minter.String()))
	}

	campaigns := usecase.NewCampaignUseCase(usecase.Dependencies{
		Store:    store,
		Treasury: funds,
		Events:   publisher,
		Logger:   logger,
		Identity: engineAccount,
	})

	if cfg.SeedDemo {
		n, err := db.Seed(ctx, campaigns, info.Owner)
		if err != nil {
			return fmt.Errorf("seed demo campaigns: %w", err)
		}
		logger.Info("demo campaigns seeded", slog.Int("created", n))
	}

	handler := httpadapter.NewHandler(httpadapter.Options{
		Campaigns:      campaigns,
		Rewards:        rewards,
		Funds:          funds,
		Verifier:       verifier,
		Idempotency:    idem,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		Deployment: httpadapter.Deployment{
			Network:             cfg.Deploy.Network,
			ChainID:             cfg.Deploy.ChainID,
			CrowdfundingAddress: engineAccount.String(),
			RewardTokenAddress:  cfg.Deploy.RewardTokenAddress,
		},
		Logger: logger,
	})
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err = <-serveErr:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.Info("server gracefully stopped")
	return nil
}

func openStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (port.Store, func(), error) {
	driver, err := cfg.Store.Normalized()
	if err != nil {
		return nil, nil, err
	}
	if driver == configs.StoreMemory {
		logger.Info("using in-memory store")
		return memory.NewStore(), func() {}, nil
	}

	// Optionally run migrations if configured. We use the Psql sub-config.
	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("migrations applied successfully")
	}
	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		return nil, nil, fmt.Errorf("database connection: %w", err)
	}
	return postgres.NewStore(pool), pool.Close, nil
}

func openPublisher(cfg configs.Kafka, logger *slog.Logger) (port.EventPublisher, func(), error) {
	if len(cfg.Brokers) == 0 {
		return events.NewLogPublisher(logger), func() {}, nil
	}
	p, err := events.NewKafkaPublisher(cfg.Brokers, cfg.TopicPrefix)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("publishing events to kafka", slog.Any("brokers", cfg.Brokers))
	return p, func() {
		if err := p.Close(); err != nil {
			logger.Error("kafka writer close error", slog.Any("error", err))
		}
	}, nil
}

func openIdempotency(ctx context.Context, cfg configs.Redis, logger *slog.Logger) (port.IdempotencyStore, func(), error) {
	if cfg.Address == "" {
		return memory.NewIdempotencyStore(), func() {}, nil
	}
	client, err := redis.Connect(ctx, cfg.Address)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("idempotency keys stored in redis")
	return redis.NewIdempotencyStore(client), func() { _ = client.Close() }, nil
}
