package scan_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/loyalty-engine/factory"
	"github.com/warp/loyalty-engine/loyalty"
	"github.com/warp/loyalty-engine/loyalty/store"
	"github.com/warp/loyalty-engine/scan"
)

func TestScanner_Produce_WithinContract(t *testing.T) {
	// Every produced event names a catalog business and awards 10-39
	// points, whatever the seed.

	catalog := factory.DemoCatalog()
	scanner := scan.New(catalog, 42)
	ctx := context.Background()

	for i := 0; i < 200; i++ {
		event, err := scanner.Produce(ctx)
		require.NoError(t, err)

		_, err = catalog.GetBusiness(event.BusinessID)
		assert.NoError(t, err, "event must reference a seeded business")
		assert.GreaterOrEqual(t, event.Points, int64(10))
		assert.LessOrEqual(t, event.Points, int64(39))
	}
}

func TestScanner_Produce_Deterministic(t *testing.T) {
	// Same seed, same event sequence.

	catalog := factory.DemoCatalog()
	ctx := context.Background()

	a := scan.New(catalog, 7)
	b := scan.New(catalog, 7)

	for i := 0; i < 20; i++ {
		eventA, err := a.Produce(ctx)
		require.NoError(t, err)
		eventB, err := b.Produce(ctx)
		require.NoError(t, err)
		assert.Equal(t, eventA, eventB)
	}
}

func TestScanner_EmptyCatalog(t *testing.T) {
	catalog, err := loyalty.NewCatalog(nil, nil)
	require.NoError(t, err)

	scanner := scan.New(catalog, 1)
	_, err = scanner.Produce(context.Background())
	assert.Error(t, err)
}

func TestScanner_DrivesLedger(t *testing.T) {
	// A scan pumped through the ledger credits exactly the produced points.

	catalog := factory.DemoCatalog()
	ledger := loyalty.NewLedger(store.NewMemory())
	pump := &loyalty.Pump{Source: scan.New(catalog, 99), Ledger: ledger}
	ctx := context.Background()

	user := loyalty.UserID("user-1")
	event, tx, err := pump.Record(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, event.Points, tx.Points)

	balance, err := ledger.BalanceOf(ctx, user, event.BusinessID)
	require.NoError(t, err)
	assert.Equal(t, event.Points, balance)
}

func TestPurchaseSource(t *testing.T) {
	business := loyalty.Business{ID: "1", Name: "Coffee Central", PointsPerDollar: 10}

	source := scan.PurchaseSource{Business: business, Amount: decimal.RequireFromString("4.50")}
	event, err := source.Produce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, business.ID, event.BusinessID)
	assert.Equal(t, int64(45), event.Points)
	assert.Equal(t, "Purchase of $4.50", event.Description)
}

func TestPurchaseSource_NoPoints(t *testing.T) {
	business := loyalty.Business{ID: "2", Name: "No Rate", PointsPerDollar: 0}

	source := scan.PurchaseSource{Business: business, Amount: decimal.RequireFromString("100")}
	_, err := source.Produce(context.Background())
	assert.Error(t, err)
}
