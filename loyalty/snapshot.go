/*
snapshot.go - Read-only projections over the ledger

PURPOSE:
  Everything a presentation layer reads: immutable per-user snapshots,
  the cross-business total, progress toward the next reward, and
  per-business engagement stats. All of these are derived views computed
  from the transaction log on demand - none is a second source of truth.
*/
package loyalty

import (
	"context"
	"sort"
	"time"
)

// =============================================================================
// USER SNAPSHOT
// =============================================================================

// Snapshot is an immutable view of one user's state, safe to hand across
// the service boundary. Maps and slices are freshly allocated per call.
type Snapshot struct {
	UserID      UserID
	TakenAt     time.Time
	Balances    map[BusinessID]int64
	TotalPoints int64
	Recent      []Transaction // most-recent-first
}

// snapshotRecentLimit caps the transactions embedded in a snapshot;
// full history stays available through Ledger.History.
const snapshotRecentLimit = 50

// Snapshot captures a user's balances, total, and recent transactions.
func (l *Ledger) Snapshot(ctx context.Context, userID UserID) (Snapshot, error) {
	balances, err := l.store.Balances(ctx, userID)
	if err != nil {
		return Snapshot{}, err
	}

	recent, err := l.store.History(ctx, userID, snapshotRecentLimit)
	if err != nil {
		return Snapshot{}, err
	}

	var total int64
	for _, points := range balances {
		total += points
	}

	return Snapshot{
		UserID:      userID,
		TakenAt:     l.now(),
		Balances:    balances,
		TotalPoints: total,
		Recent:      recent,
	}, nil
}

// TotalPoints is the cross-business aggregate: the sum of BalanceOf over
// every business the user has interacted with. Computed, never stored.
func (l *Ledger) TotalPoints(ctx context.Context, userID UserID) (int64, error) {
	balances, err := l.store.Balances(ctx, userID)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, points := range balances {
		total += points
	}
	return total, nil
}

// =============================================================================
// PROGRESS - Next reward within reach
// =============================================================================

// Progress reports how a user's total stacks up against the catalog:
// the cheapest reward they cannot yet afford, and how far away it is.
type Progress struct {
	TotalPoints int64
	NextReward  *Reward // nil when every reward is affordable
	PointsToGo  int64   // 0 when NextReward is nil
}

// ProgressFor computes the next-reward progress view for a user.
func ProgressFor(ctx context.Context, ledger *Ledger, catalog *Catalog, userID UserID) (Progress, error) {
	total, err := ledger.TotalPoints(ctx, userID)
	if err != nil {
		return Progress{}, err
	}

	rewards := catalog.ListRewards(RewardFilter{})
	sort.SliceStable(rewards, func(i, j int) bool {
		return rewards[i].PointsRequired < rewards[j].PointsRequired
	})

	p := Progress{TotalPoints: total}
	for i := range rewards {
		if rewards[i].PointsRequired > total {
			p.NextReward = &rewards[i]
			p.PointsToGo = rewards[i].PointsRequired - total
			break
		}
	}
	return p, nil
}

// =============================================================================
// BUSINESS STATS - Aggregate engagement per business
// =============================================================================

// BusinessStats summarizes one business's engagement across all users.
type BusinessStats struct {
	BusinessID     BusinessID
	PointsIssued   int64 // sum of earned transaction points
	PointsRedeemed int64 // absolute points spent on rewards
	Redemptions    int   // count of redeemed transactions
	Customers      int   // distinct users with any transaction
}

// StatsFor aggregates a business's transactions into engagement stats.
func StatsFor(ctx context.Context, store Store, businessID BusinessID) (BusinessStats, error) {
	txs, err := store.HistoryByBusiness(ctx, businessID)
	if err != nil {
		return BusinessStats{}, err
	}

	stats := BusinessStats{BusinessID: businessID}
	users := make(map[UserID]struct{})
	for _, tx := range txs {
		users[tx.UserID] = struct{}{}
		switch tx.Kind {
		case TxEarned:
			stats.PointsIssued += tx.Points
		case TxRedeemed:
			stats.PointsRedeemed += -tx.Points
			stats.Redemptions++
		}
	}
	stats.Customers = len(users)
	return stats, nil
}
