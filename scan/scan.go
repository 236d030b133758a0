/*
Package scan provides simulated earn-event sources.

PURPOSE:
  Stand-ins for real point producers while no merchant integration
  exists. The Scanner models a loyalty QR scan: it picks a random
  catalog business and awards a random 10-39 points. The PurchaseSource
  converts a dollar purchase into points at the business earn rate.

  Both implement loyalty.EarnSource, so the ledger core never knows it
  is being fed simulated events. Randomness and time are injectable for
  deterministic tests.
*/
package scan

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/warp/loyalty-engine/loyalty"
)

// Point range for one simulated scan.
const (
	minScanPoints = 10
	maxScanPoints = 39
)

// =============================================================================
// SCANNER - Randomized scan simulation
// =============================================================================

// Scanner produces one randomized earn event per call: a uniformly random
// business from the catalog and a uniform award in [10, 39] points.
type Scanner struct {
	catalog *loyalty.Catalog

	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand
}

// New creates a scanner over the catalog. seed fixes the event sequence;
// use NewFromSource with a crypto or time-based source in production.
func New(catalog *loyalty.Catalog, seed int64) *Scanner {
	return NewFromSource(catalog, rand.NewSource(seed))
}

func NewFromSource(catalog *loyalty.Catalog, src rand.Source) *Scanner {
	return &Scanner{
		catalog: catalog,
		rng:     rand.New(src),
	}
}

// Produce picks a random business and point amount. Fails only when the
// catalog has no businesses to scan.
func (s *Scanner) Produce(_ context.Context) (loyalty.EarnEvent, error) {
	businesses := s.catalog.ListBusinesses()
	if len(businesses) == 0 {
		return loyalty.EarnEvent{}, fmt.Errorf("scan: catalog has no businesses")
	}

	s.mu.Lock()
	business := businesses[s.rng.Intn(len(businesses))]
	points := int64(minScanPoints + s.rng.Intn(maxScanPoints-minScanPoints+1))
	s.mu.Unlock()

	return loyalty.EarnEvent{
		BusinessID:  business.ID,
		Points:      points,
		Description: fmt.Sprintf("Earned %d points", points),
	}, nil
}

var _ loyalty.EarnSource = (*Scanner)(nil)

// =============================================================================
// PURCHASE SOURCE - Dollar purchase at a known business
// =============================================================================

// PurchaseSource reports a single dollar purchase at one business,
// converted to points at the business earn rate.
type PurchaseSource struct {
	Business loyalty.Business
	Amount   decimal.Decimal
}

// Produce converts the purchase into an earn event. A purchase that earns
// no points (zero rate, too-small amount) is an error rather than a
// zero-point event, which the ledger would reject anyway.
func (p PurchaseSource) Produce(_ context.Context) (loyalty.EarnEvent, error) {
	points := loyalty.PointsForPurchase(p.Business, p.Amount)
	if points <= 0 {
		return loyalty.EarnEvent{}, fmt.Errorf("scan: purchase of %s at %s earns no points", p.Amount, p.Business.Name)
	}

	return loyalty.EarnEvent{
		BusinessID:  p.Business.ID,
		Points:      points,
		Description: fmt.Sprintf("Purchase of $%s", p.Amount.StringFixed(2)),
	}, nil
}

var _ loyalty.EarnSource = PurchaseSource{}
