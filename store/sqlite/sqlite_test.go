package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/loyalty-engine/loyalty"
	"github.com/warp/loyalty-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func tx(id string, user loyalty.UserID, business loyalty.BusinessID, points int64, kind loyalty.TransactionKind) loyalty.Transaction {
	out := loyalty.Transaction{
		ID:          loyalty.TransactionID(id),
		UserID:      user,
		BusinessID:  business,
		Points:      points,
		Kind:        kind,
		Description: "test",
		CreatedAt:   time.Date(2026, time.September, 1, 12, 0, 0, 0, time.UTC),
	}
	if kind == loyalty.TxRedeemed {
		out.RewardID = "r1"
	}
	return out
}

// =============================================================================
// STORE TESTS
// =============================================================================

func TestSQLite_AppendAndBalance(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, tx("t1", "u1", "b1", 100, loyalty.TxEarned)))
	require.NoError(t, store.Append(ctx, tx("t2", "u1", "b1", -30, loyalty.TxRedeemed)))
	require.NoError(t, store.Append(ctx, tx("t3", "u1", "b2", 50, loyalty.TxEarned)))

	balance, err := store.Balance(ctx, "u1", "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(70), balance)

	balance, err = store.Balance(ctx, "u1", "none")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance, "unseen cell sums to zero")

	balances, err := store.Balances(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, map[loyalty.BusinessID]int64{"b1": 70, "b2": 50}, balances)
}

func TestSQLite_DuplicateID_Rejected(t *testing.T) {
	// Transaction IDs are unique for the lifetime of the ledger; the
	// schema enforces it.

	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, tx("t1", "u1", "b1", 10, loyalty.TxEarned)))
	err := store.Append(ctx, tx("t1", "u1", "b1", 10, loyalty.TxEarned))
	assert.Error(t, err)
}

func TestSQLite_History_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	want := tx("t1", "u1", "b1", -25, loyalty.TxRedeemed)
	require.NoError(t, store.Append(ctx, want))

	txs, err := store.History(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, txs, 1)

	got := txs[0]
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.UserID, got.UserID)
	assert.Equal(t, want.BusinessID, got.BusinessID)
	assert.Equal(t, want.Points, got.Points)
	assert.Equal(t, want.Kind, got.Kind)
	assert.Equal(t, want.RewardID, got.RewardID)
	assert.Equal(t, want.Description, got.Description)
	assert.True(t, want.CreatedAt.Equal(got.CreatedAt))
}

func TestSQLite_History_OrderAndLimit(t *testing.T) {
	// Identical timestamps: the insertion sequence breaks the tie,
	// newest first.

	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"t1", "t2", "t3"} {
		require.NoError(t, store.Append(ctx, tx(id, "u1", "b1", 10, loyalty.TxEarned)))
	}

	txs, err := store.History(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, txs, 3)
	assert.Equal(t, loyalty.TransactionID("t3"), txs[0].ID)
	assert.Equal(t, loyalty.TransactionID("t1"), txs[2].ID)

	limited, err := store.History(ctx, "u1", 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, loyalty.TransactionID("t3"), limited[0].ID)
}

func TestSQLite_HistoryByBusiness(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Append(ctx, tx("t1", "u1", "b1", 10, loyalty.TxEarned)))
	require.NoError(t, store.Append(ctx, tx("t2", "u2", "b1", 20, loyalty.TxEarned)))
	require.NoError(t, store.Append(ctx, tx("t3", "u1", "b2", 30, loyalty.TxEarned)))

	txs, err := store.HistoryByBusiness(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, txs, 2)
	assert.Equal(t, loyalty.TransactionID("t2"), txs[0].ID)
}

// =============================================================================
// LEDGER OVER SQLITE
// =============================================================================

func TestSQLite_LedgerRedemptionFlow(t *testing.T) {
	// The full engine path against the durable store: earn, overdraw,
	// redeem, and the balance always equals the history sum.

	store := newTestStore(t)
	ledger := loyalty.NewLedger(store)
	ctx := context.Background()

	_, err := ledger.Earn(ctx, "u1", "b1", 250, "earn")
	require.NoError(t, err)

	_, err = ledger.Redeem(ctx, "u1", "b1", 300, "r1", "too much")
	assert.ErrorIs(t, err, loyalty.ErrInsufficientBalance)

	_, err = ledger.Redeem(ctx, "u1", "b1", 100, "r1", "Redeemed: Free Coffee")
	require.NoError(t, err)

	balance, err := ledger.BalanceOf(ctx, "u1", "b1")
	require.NoError(t, err)
	assert.Equal(t, int64(150), balance)

	history, err := ledger.History(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, history, 2)

	var sum int64
	for _, entry := range history {
		sum += entry.Points
	}
	assert.Equal(t, balance, sum)
}
