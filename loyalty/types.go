/*
Package loyalty provides the core points ledger and redemption engine.

PURPOSE:
  This package contains the types and algorithms for tracking per-business
  loyalty point balances: an append-only transaction log, a read-only
  catalog of businesses and rewards, and the rules under which points may
  be earned or spent.

KEY CONCEPTS IN THIS FILE (types.go):
  - Business/Reward: Immutable catalog records
  - Transaction: An immutable ledger entry recording balance changes
  - Cell: The (user, business) pair a balance belongs to
  - User/Business/Reward IDs: Type-safe identifiers

DESIGN PRINCIPLES:
  1. Immutability: Transactions are never modified after creation
  2. Single source of truth: Balance is always the sum of transactions
  3. Type Safety: Strong typing for IDs prevents mixing user/business IDs
  4. Ownership: The Ledger is the sole mutator of balances and the log

SEE ALSO:
  - ledger.go: Balance mutation and history
  - catalog.go: Business/Reward lookups
  - store.go: Persistence interface
*/
package loyalty

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type BusinessID string
type RewardID string
type TransactionID string

// Cell identifies the unit of balance ownership and mutual exclusion:
// one balance exists per (user, business) pair.
type Cell struct {
	UserID     UserID
	BusinessID BusinessID
}

// =============================================================================
// CATALOG RECORDS
// =============================================================================

// Business is a participating merchant. Immutable once seeded.
type Business struct {
	ID             BusinessID
	Name           string
	Category       string
	Description    string
	PointsPerDollar int64 // non-negative earn rate for purchase-based earning
}

// Reward is something redeemable with points at a single business.
// Immutable once seeded. BusinessID must reference an existing Business.
type Reward struct {
	ID             RewardID
	BusinessID     BusinessID
	Title          string
	Description    string
	PointsRequired int64 // always positive
	Category       string
}

// PointsForPurchase converts a dollar purchase amount into earned points
// using the business earn rate. Fractions round down; a rate of zero or a
// non-positive amount earns nothing.
func PointsForPurchase(b Business, amount decimal.Decimal) int64 {
	if b.PointsPerDollar <= 0 || !amount.IsPositive() {
		return 0
	}
	return amount.Mul(decimal.NewFromInt(b.PointsPerDollar)).IntPart()
}

// =============================================================================
// TRANSACTION - Atomic change to a balance cell
// =============================================================================

type TransactionKind string

const (
	TxEarned   TransactionKind = "earned"   // Points credited (scan, purchase)
	TxRedeemed TransactionKind = "redeemed" // Points spent on a catalog reward
)

// Transaction records one balance-changing event. Append-only: once written
// it is never updated or deleted.
//
// Points is signed: positive for TxEarned, negative for TxRedeemed. For a
// redemption, Points is exactly the negation of the reward's PointsRequired
// at redemption time and RewardID carries the reward redeemed.
type Transaction struct {
	ID          TransactionID
	UserID      UserID
	BusinessID  BusinessID
	Points      int64
	Kind        TransactionKind
	RewardID    RewardID // set only for TxRedeemed
	Description string
	CreatedAt   time.Time
}
