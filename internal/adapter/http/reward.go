package httpadapter

import (
	"net/http"
	"strings"

	"crowdfund/internal/core/domain"
)

func (h *Handler) handleRewardInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.rewards.Info(r.Context())
	if err != nil {
		h.fail(w, r, "reward info", err)
		return
	}
	writeJSON(w, http.StatusOK, toRewardInfoResponse(info))
}

func (h *Handler) handleRewardBalance(w http.ResponseWriter, r *http.Request) {
	account, ok := accountParam(w, r)
	if !ok {
		return
	}
	bal, err := h.rewards.BalanceOf(r.Context(), account)
	if err != nil {
		h.fail(w, r, "reward balance", err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Account: account.String(), Amount: bal})
}

// handleFunds reports the account's native-currency balance held by the
// treasury.
func (h *Handler) handleFunds(w http.ResponseWriter, r *http.Request) {
	account, ok := accountParam(w, r)
	if !ok {
		return
	}
	if h.funds == nil {
		writeError(w, r, http.StatusNotImplemented, "Unsupported", "funds are not tracked by this deployment")
		return
	}
	bal, err := h.funds.BalanceOf(r.Context(), account)
	if err != nil {
		h.fail(w, r, "funds balance", err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Account: account.String(), Amount: bal})
}

// handleSetMinter replaces the reward minter. Only the ledger owner may
// call it; the response is the updated ledger description.
func (h *Handler) handleSetMinter(w http.ResponseWriter, r *http.Request) {
	var req setMinterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	// An empty minter is passed through so the ownership check runs first.
	minter := domain.Account(strings.TrimSpace(req.Minter))
	if err := h.rewards.SetMinter(r.Context(), callerFromContext(r.Context()), minter); err != nil {
		h.fail(w, r, "set minter", err)
		return
	}
	info, err := h.rewards.Info(r.Context())
	if err != nil {
		h.fail(w, r, "reward info", err)
		return
	}
	writeJSON(w, http.StatusOK, toRewardInfoResponse(info))
}

func (h *Handler) handleMint(w http.ResponseWriter, r *http.Request) {
	var req mintRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	account := domain.Account(strings.TrimSpace(req.Account))
	if err := h.rewards.Mint(r.Context(), callerFromContext(r.Context()), account, req.Amount); err != nil {
		h.fail(w, r, "mint", err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{Account: account.String(), Amount: req.Amount})
}
