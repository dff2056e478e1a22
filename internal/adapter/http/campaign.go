package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"crowdfund/internal/core/domain"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeBodyError(w, r, err)
		return false
	}
	return true
}

// writeBodyError answers 413 for bodies over maxBodyBytes and 400 for
// anything else unreadable.
func writeBodyError(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, r, http.StatusRequestEntityTooLarge, "RequestTooLarge", "request body too large")
		return
	}
	writeError(w, r, http.StatusBadRequest, "InvalidRequest", "invalid JSON")
}

// campaignID parses the {id} path parameter. It writes a 400 and returns
// false when the parameter is not an integer.
func campaignID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "InvalidRequest", "invalid campaign id")
		return 0, false
	}
	return id, true
}

func accountParam(w http.ResponseWriter, r *http.Request) (domain.Account, bool) {
	account, err := domain.ParseAccount(chi.URLParam(r, "account"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, domain.Code(err), err.Error())
		return "", false
	}
	return account, true
}

// handleCreateCampaign opens a campaign owned by the caller and returns its
// id with HTTP 201.
func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	var req createCampaignRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	id, err := h.campaigns.CreateCampaign(r.Context(), callerFromContext(r.Context()), req.Title, req.Goal, req.DurationSeconds)
	if err != nil {
		h.fail(w, r, "create campaign", err)
		return
	}
	writeJSON(w, http.StatusCreated, createCampaignResponse{ID: id})
}

// handleListCampaigns lists campaigns in id order, optionally from the
// `from` id and at most `limit` entries. Authenticated callers also get
// their contribution and pending reward for each campaign.
func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	var (
		q     = r.URL.Query()
		from  = int64(1)
		limit int
		err   error
	)
	if s := q.Get("from"); s != "" {
		if from, err = strconv.ParseInt(s, 10, 64); err != nil {
			writeError(w, r, http.StatusBadRequest, "InvalidRequest", "invalid 'from'")
			return
		}
	}
	if s := q.Get("limit"); s != "" {
		if limit, err = strconv.Atoi(s); err != nil || limit < 0 {
			writeError(w, r, http.StatusBadRequest, "InvalidRequest", "invalid 'limit'")
			return
		}
	}

	viewer := callerFromContext(r.Context())
	count, err := h.campaigns.CampaignCount(r.Context())
	if err != nil {
		h.fail(w, r, "campaign count", err)
		return
	}
	views, err := h.campaigns.ListCampaigns(r.Context(), viewer, from, limit)
	if err != nil {
		h.fail(w, r, "list campaigns", err)
		return
	}
	resp := campaignListResponse{Count: count, Campaigns: make([]campaignResponse, 0, len(views))}
	for _, v := range views {
		resp.Campaigns = append(resp.Campaigns, toCampaignViewResponse(v, !viewer.IsZero()))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleCampaignCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.campaigns.CampaignCount(r.Context())
	if err != nil {
		h.fail(w, r, "campaign count", err)
		return
	}
	writeJSON(w, http.StatusOK, countResponse{Count: count})
}

func (h *Handler) handleGetCampaign(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	viewer := callerFromContext(r.Context())
	views, err := h.campaigns.ListCampaigns(r.Context(), viewer, id, 1)
	if err != nil {
		h.fail(w, r, "get campaign", err)
		return
	}
	if len(views) == 0 || views[0].Campaign.ID != id {
		h.fail(w, r, "get campaign", domain.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, toCampaignViewResponse(views[0], !viewer.IsZero()))
}

func (h *Handler) handleGetContribution(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	account, ok := accountParam(w, r)
	if !ok {
		return
	}
	amount, err := h.campaigns.Contribution(r.Context(), id, account)
	if err != nil {
		h.fail(w, r, "get contribution", err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{CampaignID: id, Account: account.String(), Amount: amount})
}

func (h *Handler) handleGetPendingReward(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	account, ok := accountParam(w, r)
	if !ok {
		return
	}
	amount, err := h.campaigns.PendingReward(r.Context(), id, account)
	if err != nil {
		h.fail(w, r, "get pending reward", err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{CampaignID: id, Account: account.String(), Amount: amount})
}

func (h *Handler) handleContribute(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	var req contributeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	caller := callerFromContext(r.Context())
	if err := h.campaigns.Contribute(r.Context(), caller, id, req.Amount); err != nil {
		h.fail(w, r, "contribute", err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{CampaignID: id, Account: caller.String(), Amount: req.Amount})
}

// handleFinalize settles the campaign. Any authenticated caller may
// finalize once the deadline has passed.
func (h *Handler) handleFinalize(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	c, err := h.campaigns.FinalizeCampaign(r.Context(), id)
	if err != nil {
		h.fail(w, r, "finalize campaign", err)
		return
	}
	state := domain.StateFailed
	if c.Successful {
		state = domain.StateSuccessful
	}
	writeJSON(w, http.StatusOK, toCampaignResponse(c, state))
}

func (h *Handler) handleClaim(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	caller := callerFromContext(r.Context())
	minted, err := h.campaigns.ClaimReward(r.Context(), caller, id)
	if err != nil {
		h.fail(w, r, "claim reward", err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{CampaignID: id, Account: caller.String(), Amount: minted})
}

func (h *Handler) handleRefund(w http.ResponseWriter, r *http.Request) {
	id, ok := campaignID(w, r)
	if !ok {
		return
	}
	caller := callerFromContext(r.Context())
	refunded, err := h.campaigns.Refund(r.Context(), caller, id)
	if err != nil {
		h.fail(w, r, "refund", err)
		return
	}
	writeJSON(w, http.StatusOK, amountResponse{CampaignID: id, Account: caller.String(), Amount: refunded})
}
