/*
ledger.go - The authoritative owner of balances and the transaction log

PURPOSE:
  The Ledger is the single writer for all point balances. Every balance
  change is recorded as an immutable transaction; balance is always the
  sum of a cell's transaction points, so the two can never drift.

CRITICAL INVARIANTS:
  1. Balance(user, business) == sum of that cell's transaction points
  2. Balance is never negative: a redemption that would overdraw fails
     with ErrInsufficientBalance and writes nothing
  3. A redeemed transaction's points is the negation of the reward cost
  4. Transaction IDs are unique for the lifetime of the ledger

CONCURRENCY:
  The unit of contention is a single (user, business) cell. Each cell has
  its own mutex, created lazily; operations on distinct cells never block
  each other, while the balance check and append for one cell form an
  indivisible step. Reads take no cell lock - the Store guarantees a
  consistent prefix of the log.

SEE ALSO:
  - store.go: Persistence contract
  - service.go: Catalog-validated redemption on top of this ledger
*/
package loyalty

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// LEDGER
// =============================================================================

// Ledger owns all balance and transaction state for every (user, business)
// cell, backed by an append-only Store. Construct with NewLedger; the zero
// value is not usable.
type Ledger struct {
	store Store

	mu    sync.Mutex // guards cells
	cells map[Cell]*sync.Mutex

	now func() time.Time
}

func NewLedger(store Store) *Ledger {
	return &Ledger{
		store: store,
		cells: make(map[Cell]*sync.Mutex),
		now:   time.Now,
	}
}

// cell returns the mutex serializing writes for one (user, business) pair,
// creating it on first use.
func (l *Ledger) cell(userID UserID, businessID BusinessID) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := Cell{UserID: userID, BusinessID: businessID}
	m, ok := l.cells[k]
	if !ok {
		m = &sync.Mutex{}
		l.cells[k] = m
	}
	return m
}

// =============================================================================
// READS
// =============================================================================

// BalanceOf returns the current point balance for a cell. A cell with no
// transactions has balance 0.
func (l *Ledger) BalanceOf(ctx context.Context, userID UserID, businessID BusinessID) (int64, error) {
	return l.store.Balance(ctx, userID, businessID)
}

// History returns a user's transactions across all businesses,
// most-recent-first. limit <= 0 returns everything.
func (l *Ledger) History(ctx context.Context, userID UserID, limit int) ([]Transaction, error) {
	return l.store.History(ctx, userID, limit)
}

// =============================================================================
// WRITES
// =============================================================================

// Earn credits points to a cell and appends an earned transaction.
// points must be positive; the caller is responsible for the business ID
// being a valid catalog key.
func (l *Ledger) Earn(ctx context.Context, userID UserID, businessID BusinessID, points int64, description string) (Transaction, error) {
	if points <= 0 {
		return Transaction{}, ErrInvalidAmount
	}

	m := l.cell(userID, businessID)
	m.Lock()
	defer m.Unlock()

	tx := Transaction{
		ID:          TransactionID(uuid.NewString()),
		UserID:      userID,
		BusinessID:  businessID,
		Points:      points,
		Kind:        TxEarned,
		Description: description,
		CreatedAt:   l.now(),
	}
	if err := l.store.Append(ctx, tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}

// Redeem debits points from a cell as one indivisible check-and-deduct.
// If the cell's balance cannot cover the cost, it fails with an
// InsufficientBalanceError and the ledger is left unchanged. Two
// concurrent redemptions against the same cell can never both succeed
// when only one is covered by the available balance.
func (l *Ledger) Redeem(ctx context.Context, userID UserID, businessID BusinessID, points int64, rewardID RewardID, description string) (Transaction, error) {
	if points <= 0 {
		return Transaction{}, ErrInvalidAmount
	}

	m := l.cell(userID, businessID)
	m.Lock()
	defer m.Unlock()

	balance, err := l.store.Balance(ctx, userID, businessID)
	if err != nil {
		return Transaction{}, err
	}
	if balance < points {
		return Transaction{}, &InsufficientBalanceError{
			UserID:     userID,
			BusinessID: businessID,
			Available:  balance,
			Requested:  points,
		}
	}

	tx := Transaction{
		ID:          TransactionID(uuid.NewString()),
		UserID:      userID,
		BusinessID:  businessID,
		Points:      -points,
		Kind:        TxRedeemed,
		RewardID:    rewardID,
		Description: description,
		CreatedAt:   l.now(),
	}
	if err := l.store.Append(ctx, tx); err != nil {
		return Transaction{}, err
	}
	return tx, nil
}
