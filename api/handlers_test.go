package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/loyalty-engine/api"
	"github.com/warp/loyalty-engine/factory"
	"github.com/warp/loyalty-engine/loyalty"
	"github.com/warp/loyalty-engine/loyalty/store"
	"github.com/warp/loyalty-engine/scan"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type testEnv struct {
	router http.Handler
	ledger *loyalty.Ledger
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	catalog := factory.DemoCatalog()
	memory := store.NewMemory()
	ledger := loyalty.NewLedger(memory)
	handler := api.NewHandler(catalog, ledger, memory, scan.New(catalog, 1))

	return &testEnv{
		router: api.NewRouter(handler, zerolog.Nop()),
		ledger: ledger,
	}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

// =============================================================================
// CATALOG ENDPOINTS
// =============================================================================

func TestListBusinesses(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/businesses", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	businesses := decode[[]api.BusinessDTO](t, rec)
	require.Len(t, businesses, 3)
	assert.Equal(t, "Coffee Central", businesses[0].Name)
}

func TestGetBusiness_NotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/businesses/ghost", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListRewards_CategoryFilter(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/rewards?category=Discount", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rewards := decode[[]api.RewardDTO](t, rec)
	require.Len(t, rewards, 2)
	for _, reward := range rewards {
		assert.Equal(t, "Discount", reward.Category)
	}

	rec = env.do(t, http.MethodGet, "/api/rewards?category=all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.RewardDTO](t, rec), 4)
}

// =============================================================================
// EARN / REDEEM
// =============================================================================

func TestEarn_ExplicitPoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users/u1/earn", api.EarnRequest{
		BusinessID: "1", Points: 120, Description: "visit",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	tx := decode[api.TransactionDTO](t, rec)
	assert.Equal(t, int64(120), tx.Points)
	assert.Equal(t, "earned", tx.Kind)

	balance, err := env.ledger.BalanceOf(context.Background(), "u1", "1")
	require.NoError(t, err)
	assert.Equal(t, int64(120), balance)
}

func TestEarn_PurchaseAmount(t *testing.T) {
	env := newTestEnv(t)

	// Coffee Central earns 10 points per dollar.
	rec := env.do(t, http.MethodPost, "/api/users/u1/earn", api.EarnRequest{
		BusinessID: "1", Amount: "4.50",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	tx := decode[api.TransactionDTO](t, rec)
	assert.Equal(t, int64(45), tx.Points)
	assert.Equal(t, "Purchase of $4.50", tx.Description)
}

func TestEarn_Invalid(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users/u1/earn", api.EarnRequest{
		BusinessID: "1", Points: 0,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/users/u1/earn", api.EarnRequest{
		BusinessID: "ghost", Points: 10,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRedeem_Flow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.Earn(ctx, "u1", "1", 250, "seed")
	require.NoError(t, err)

	// Free Coffee costs 100 at business 1.
	rec := env.do(t, http.MethodPost, "/api/users/u1/redeem", api.RedeemRequest{RewardID: "1"})
	require.Equal(t, http.StatusCreated, rec.Code)

	tx := decode[api.TransactionDTO](t, rec)
	assert.Equal(t, int64(-100), tx.Points)
	assert.Equal(t, "redeemed", tx.Kind)
	assert.Equal(t, "1", tx.RewardID)

	balance, err := env.ledger.BalanceOf(ctx, "u1", "1")
	require.NoError(t, err)
	assert.Equal(t, int64(150), balance)
}

func TestRedeem_Failures(t *testing.T) {
	env := newTestEnv(t)

	// Unknown reward.
	rec := env.do(t, http.MethodPost, "/api/users/u1/redeem", api.RedeemRequest{RewardID: "ghost"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Known reward, empty balance.
	rec = env.do(t, http.MethodPost, "/api/users/u1/redeem", api.RedeemRequest{RewardID: "1"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	body := decode[api.ErrorResponse](t, rec)
	assert.NotEmpty(t, body.Error)
}

func TestScan(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/users/u1/scan", nil)
	require.Equal(t, http.StatusCreated, rec.Code)

	result := decode[api.ScanResultDTO](t, rec)
	assert.GreaterOrEqual(t, result.Points, int64(10))
	assert.LessOrEqual(t, result.Points, int64(39))
	assert.Equal(t, result.Points, result.Transaction.Points)

	balance, err := env.ledger.BalanceOf(context.Background(), "u1", loyalty.BusinessID(result.Business.ID))
	require.NoError(t, err)
	assert.Equal(t, result.Points, balance)
}

// =============================================================================
// READ ENDPOINTS
// =============================================================================

func TestGetBalances(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.Earn(ctx, "u1", "1", 325, "seed")
	require.NoError(t, err)
	_, err = env.ledger.Earn(ctx, "u1", "2", 150, "seed")
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/users/u1/balances", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	snapshot := decode[api.SnapshotDTO](t, rec)
	assert.Equal(t, int64(475), snapshot.TotalPoints)
	require.Len(t, snapshot.Balances, 2)
	assert.Equal(t, "1", snapshot.Balances[0].BusinessID, "sorted by business")
	assert.Len(t, snapshot.Recent, 2)
}

func TestGetHistory_Limit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		_, err := env.ledger.Earn(ctx, "u1", "1", 10, "seed")
		require.NoError(t, err)
	}

	rec := env.do(t, http.MethodGet, "/api/users/u1/transactions?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.TransactionDTO](t, rec), 2)

	rec = env.do(t, http.MethodGet, "/api/users/u1/transactions?limit=nope", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProgress(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.Earn(ctx, "u1", "1", 120, "seed")
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/users/u1/progress", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	progress := decode[api.ProgressDTO](t, rec)
	assert.Equal(t, int64(120), progress.TotalPoints)
	// Demo rewards cost 100/150/250/500; next target after 120 is 150.
	require.NotNil(t, progress.NextReward)
	assert.Equal(t, int64(150), progress.NextReward.PointsRequired)
	assert.Equal(t, int64(30), progress.PointsToGo)
}

func TestGetBusinessStats(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.ledger.Earn(ctx, "u1", "1", 300, "seed")
	require.NoError(t, err)
	_, err = env.ledger.Earn(ctx, "u2", "1", 50, "seed")
	require.NoError(t, err)
	_, err = env.ledger.Redeem(ctx, "u1", "1", 100, "1", "redeem")
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/businesses/1/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	stats := decode[api.BusinessStatsDTO](t, rec)
	assert.Equal(t, int64(350), stats.PointsIssued)
	assert.Equal(t, int64(100), stats.PointsRedeemed)
	assert.Equal(t, 1, stats.Redemptions)
	assert.Equal(t, 2, stats.Customers)

	rec = env.do(t, http.MethodGet, "/api/businesses/ghost/stats", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
