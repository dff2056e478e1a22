package httpadapter

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"crowdfund/internal/core/domain"
	"crowdfund/internal/core/port"
)

// TokenVerifier resolves a bearer token to the caller's account.
type TokenVerifier interface {
	Verify(token string) (domain.Account, error)
}

// FundsReader reports native-currency balances.
type FundsReader interface {
	BalanceOf(ctx context.Context, account domain.Account) (decimal.Decimal, error)
}

// Deployment describes where the engine and the reward ledger live. It is
// served as is to front ends that need the addresses.
type Deployment struct {
	Network             string `json:"network"`
	ChainID             string `json:"chainId"`
	CrowdfundingAddress string `json:"crowdfundingAddress"`
	RewardTokenAddress  string `json:"rewardTokenAddress"`
}

// Options carries the dependencies of the HTTP adapter. Idempotency may be
// nil, which disables Idempotency-Key handling.
type Options struct {
	Campaigns      port.CampaignUseCase
	Rewards        port.RewardUseCase
	Funds          FundsReader
	Verifier       TokenVerifier
	Idempotency    port.IdempotencyStore
	IdempotencyTTL time.Duration
	Deployment     Deployment
	Logger         *slog.Logger
}

// Handler contains dependencies and routes. It is an inbound adapter for HTTP.
// Routes are registered on a chi.Router; mutating routes sit behind bearer
// authentication and Idempotency-Key replay.
type Handler struct {
	campaigns  port.CampaignUseCase
	rewards    port.RewardUseCase
	funds      FundsReader
	verifier   TokenVerifier
	idem       port.IdempotencyStore
	idemTTL    time.Duration
	deployment Deployment
	logger     *slog.Logger
	router     chi.Router
}

// NewHandler creates a handler with all routes configured.
func NewHandler(opts Options) *Handler {
	h := &Handler{
		campaigns:  opts.Campaigns,
		rewards:    opts.Rewards,
		funds:      opts.Funds,
		verifier:   opts.Verifier,
		idem:       opts.Idempotency,
		idemTTL:    opts.IdempotencyTTL,
		deployment: opts.Deployment,
		logger:     opts.Logger,
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}
	if h.idemTTL <= 0 {
		h.idemTTL = 24 * time.Hour
	}

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.identify)
		r.Get("/deployment", h.handleDeployment)

		r.Get("/campaigns", h.handleListCampaigns)
		r.Get("/campaigns/count", h.handleCampaignCount)
		r.Get("/campaigns/{id}", h.handleGetCampaign)
		r.Get("/campaigns/{id}/contributions/{account}", h.handleGetContribution)
		r.Get("/campaigns/{id}/rewards/{account}", h.handleGetPendingReward)

		r.Get("/rewards", h.handleRewardInfo)
		r.Get("/rewards/balances/{account}", h.handleRewardBalance)
		r.Get("/accounts/{account}/funds", h.handleFunds)

		r.Group(func(r chi.Router) {
			r.Use(requireCaller)
			r.Use(h.idempotent)
			r.Post("/campaigns", h.handleCreateCampaign)
			r.Post("/campaigns/{id}/contributions", h.handleContribute)
			r.Post("/campaigns/{id}/finalize", h.handleFinalize)
			r.Post("/campaigns/{id}/claim", h.handleClaim)
			r.Post("/campaigns/{id}/refund", h.handleRefund)
			r.Post("/rewards/minter", h.handleSetMinter)
			r.Post("/rewards/mint", h.handleMint)
		})
	})
	h.router = r
	return h
}

// Router returns the underlying http.Handler.
func (h *Handler) Router() http.Handler {
	return h.router
}

func (h *Handler) handleDeployment(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.deployment)
}
