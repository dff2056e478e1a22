package httpadapter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"crowdfund/internal/adapter/memory"
	"crowdfund/internal/adapter/security"
	"crowdfund/internal/adapter/treasury"
	"crowdfund/internal/adapter/usecase"
	"crowdfund/internal/core/domain"
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type testServer struct {
	handler  http.Handler
	verifier *security.JWTVerifier
	clock    *testClock
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.NewStore()
	ledger := treasury.NewLedger(map[domain.Account]decimal.Decimal{
		"alice": decimal.NewFromInt(100),
		"bob":   decimal.NewFromInt(100),
	})
	rewards := usecase.NewRewardUseCase(store, nil, nil)
	_, err := rewards.Bootstrap(context.Background(), domain.RewardLedgerSetup{
		Owner: "deployer", Name: "CrowdReward", Symbol: "CRWD", Decimals: 18,
	}, "crowdfunding")
	require.NoError(t, err)

	clock := &testClock{now: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)}
	campaigns := usecase.NewCampaignUseCase(usecase.Dependencies{
		Store:    store,
		Treasury: ledger,
		Identity: "crowdfunding",
		Now:      clock.Now,
	})
	verifier, err := security.NewJWTVerifier("test-secret", "")
	require.NoError(t, err)

	h := NewHandler(Options{
		Campaigns:   campaigns,
		Rewards:     rewards,
		Funds:       ledger,
		Verifier:    verifier,
		Idempotency: memory.NewIdempotencyStore(),
		Deployment:  Deployment{Network: "sepolia", ChainID: "0xaa36a7", CrowdfundingAddress: "crowdfunding", RewardTokenAddress: "reward"},
	})
	return &testServer{handler: h.Router(), verifier: verifier, clock: clock}
}

func (s *testServer) do(t *testing.T, method, path string, caller domain.Account, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if caller != "" {
		token, err := s.verifier.Sign(caller, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	body := decodeBody(t, rec)
	payload, ok := body["error"].(map[string]any)
	require.True(t, ok, rec.Body.String())
	return payload["code"].(string)
}

func TestCampaignLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/campaigns", "owner", map[string]any{
		"title": "Garden", "goal": "2", "duration_seconds": 60,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.EqualValues(t, 1, decodeBody(t, rec)["id"])

	rec = s.do(t, http.MethodPost, "/api/v1/campaigns/1/contributions", "alice", map[string]any{"amount": "2"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodGet, "/api/v1/campaigns/1", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	require.Equal(t, "2", body["total_raised"])
	require.Equal(t, "2", body["contribution"])
	require.Equal(t, "2000", body["pending_reward"])
	require.Equal(t, "Active", body["status"])

	rec = s.do(t, http.MethodGet, "/api/v1/campaigns/1", "", nil)
	require.NotContains(t, decodeBody(t, rec), "contribution")

	s.clock.Advance(time.Minute)
	rec = s.do(t, http.MethodGet, "/api/v1/campaigns", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decodeBody(t, rec)
	require.EqualValues(t, 1, list["count"])
	require.Equal(t, "Ended (needs finalize)", list["campaigns"].([]any)[0].(map[string]any)["status"])

	rec = s.do(t, http.MethodPost, "/api/v1/campaigns/1/finalize", "bob", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, true, decodeBody(t, rec)["successful"])

	rec = s.do(t, http.MethodGet, "/api/v1/accounts/owner/funds", "", nil)
	require.Equal(t, "2", decodeBody(t, rec)["amount"])

	rec = s.do(t, http.MethodPost, "/api/v1/campaigns/1/claim", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "2000", decodeBody(t, rec)["amount"])

	rec = s.do(t, http.MethodGet, "/api/v1/rewards/balances/alice", "", nil)
	require.Equal(t, "2000", decodeBody(t, rec)["amount"])

	rec = s.do(t, http.MethodGet, "/api/v1/rewards", "", nil)
	info := decodeBody(t, rec)
	require.Equal(t, "CRWD", info["symbol"])
	require.Equal(t, "crowdfunding", info["minter"])
	require.Equal(t, "2000", info["total_supply"])
}

func TestFailedCampaignRefundOverHTTP(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/campaigns", "owner", map[string]any{
		"title": "Garden", "goal": "50", "duration_seconds": 60,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	rec = s.do(t, http.MethodPost, "/api/v1/campaigns/1/contributions", "alice", map[string]any{"amount": 10})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	s.clock.Advance(time.Minute)
	rec = s.do(t, http.MethodPost, "/api/v1/campaigns/1/finalize", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "failed", decodeBody(t, rec)["state"])

	rec = s.do(t, http.MethodPost, "/api/v1/campaigns/1/refund", "alice", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "10", decodeBody(t, rec)["amount"])

	rec = s.do(t, http.MethodGet, "/api/v1/accounts/alice/funds", "", nil)
	require.Equal(t, "100", decodeBody(t, rec)["amount"])

	rec = s.do(t, http.MethodPost, "/api/v1/campaigns/1/refund", "alice", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "NothingToRefund", errorCode(t, rec))
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/campaigns", "", map[string]any{"title": "X", "goal": "1", "duration_seconds": 1})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NotEmpty(t, decodeBody(t, rec)["request_id"])

	rec = s.do(t, http.MethodGet, "/api/v1/campaigns", "", nil, "Authorization", "Bearer not-a-token")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/campaigns", "owner", map[string]any{"title": "", "goal": "1", "duration_seconds": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "InvalidTitle", errorCode(t, rec))

	rec = s.do(t, http.MethodPost, "/api/v1/campaigns", "owner", map[string]any{"title": "X", "goal": "0", "duration_seconds": 1})
	require.Equal(t, "InvalidGoal", errorCode(t, rec))

	rec = s.do(t, http.MethodPost, "/api/v1/campaigns", "owner", map[string]any{"title": "X", "goal": "1", "duration_seconds": 0})
	require.Equal(t, "InvalidDuration", errorCode(t, rec))

	rec = s.do(t, http.MethodGet, "/api/v1/campaigns/9", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "NotFound", errorCode(t, rec))

	rec = s.do(t, http.MethodGet, "/api/v1/campaigns/abc", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/campaigns", "owner", map[string]any{"title": "X", "goal": "5", "duration_seconds": 60})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/campaigns/1/finalize", "owner", nil)
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "NotEnded", errorCode(t, rec))

	rec = s.do(t, http.MethodPost, "/api/v1/campaigns/1/contributions", "alice", map[string]any{"amount": "1000"})
	require.Equal(t, http.StatusPaymentRequired, rec.Code)
	require.Equal(t, "InsufficientFunds", errorCode(t, rec))

	rec = s.do(t, http.MethodPost, "/api/v1/rewards/mint", "alice", map[string]any{"account": "alice", "amount": "1"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "NotMinter", errorCode(t, rec))

	rec = s.do(t, http.MethodPost, "/api/v1/rewards/minter", "alice", map[string]any{"minter": "alice"})
	require.Equal(t, http.StatusForbidden, rec.Code)
	require.Equal(t, "NotOwner", errorCode(t, rec))

	rec = s.do(t, http.MethodPost, "/api/v1/rewards/minter", "deployer", map[string]any{"minter": "alice"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.Equal(t, "alice", decodeBody(t, rec)["minter"])
}

func TestIdempotencyKeyReplaysResponse(t *testing.T) {
	s := newTestServer(t)
	body := map[string]any{"title": "Once", "goal": "1", "duration_seconds": 60}

	first := s.do(t, http.MethodPost, "/api/v1/campaigns", "owner", body, "Idempotency-Key", "k1")
	require.Equal(t, http.StatusCreated, first.Code)

	second := s.do(t, http.MethodPost, "/api/v1/campaigns", "owner", body, "Idempotency-Key", "k1")
	require.Equal(t, http.StatusCreated, second.Code)
	require.Equal(t, "true", second.Header().Get("Idempotent-Replayed"))
	require.JSONEq(t, first.Body.String(), second.Body.String())

	rec := s.do(t, http.MethodGet, "/api/v1/campaigns/count", "", nil)
	require.EqualValues(t, 1, decodeBody(t, rec)["count"])

	changed := map[string]any{"title": "Other", "goal": "1", "duration_seconds": 60}
	rec = s.do(t, http.MethodPost, "/api/v1/campaigns", "owner", changed, "Idempotency-Key", "k1")
	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, "IdempotencyConflict", errorCode(t, rec))

	// Keys are scoped to the caller.
	rec = s.do(t, http.MethodPost, "/api/v1/campaigns", "alice", body, "Idempotency-Key", "k1")
	require.Equal(t, http.StatusCreated, rec.Code)
	require.EqualValues(t, 2, decodeBody(t, rec)["id"])
}

func TestHealthzAndDeployment(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/deployment", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	dep := decodeBody(t, rec)
	require.Equal(t, "sepolia", dep["network"])
	require.Equal(t, "0xaa36a7", dep["chainId"])
	require.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestOversizedBodyIsRejected(t *testing.T) {
	s := newTestServer(t)
	huge := map[string]any{"title": strings.Repeat("x", maxBodyBytes+1), "goal": "1", "duration_seconds": 60}

	rec := s.do(t, http.MethodPost, "/api/v1/campaigns", "owner", huge, "Idempotency-Key", "big")
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	require.Equal(t, "RequestTooLarge", errorCode(t, rec))

	rec = s.do(t, http.MethodPost, "/api/v1/campaigns", "owner", huge)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/v1/campaigns/count", "", nil)
	require.EqualValues(t, 0, decodeBody(t, rec)["count"])
}

func TestAmountsAboveUint256AreRejected(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(t, http.MethodPost, "/api/v1/campaigns", "owner", map[string]any{"title": "X", "goal": "1e80", "duration_seconds": 60})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "InvalidGoal", errorCode(t, rec))

	rec = s.do(t, http.MethodPost, "/api/v1/campaigns", "owner", map[string]any{"title": "X", "goal": "5", "duration_seconds": 60})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/v1/campaigns/1/contributions", "alice", map[string]any{"amount": "1e3000000"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, "InvalidAmount", errorCode(t, rec))
}
