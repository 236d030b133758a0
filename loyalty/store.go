/*
store.go - Persistence interface for the transaction log

PURPOSE:
  Defines the interface between the ledger and its storage. The Store
  handles persistence while maintaining append-only semantics. Different
  implementations can use SQLite or in-memory storage.

APPEND-ONLY CONTRACT:
  - Append(): The ONLY write operation.
  - NO Update() or Delete() methods exist.
  Balance is always derivable as the sum of a cell's transaction points;
  a Store may cache that sum but must never let it drift.

CONSISTENT READS:
  A transaction becomes visible only after it is fully constructed and
  appended; readers never observe a torn or partial record.

IMPLEMENTATIONS:
  - loyalty/store/memory.go: In-memory, for tests and session-scoped use
  - store/sqlite/sqlite.go:  Durable SQLite

SEE ALSO:
  - ledger.go: Higher-level operations and per-cell serialization
*/
package loyalty

import "context"

// Store persists the append-only transaction log and answers balance and
// history queries derived from it.
type Store interface {
	// Append persists a fully-constructed transaction.
	// This is the ONLY write operation.
	Append(ctx context.Context, tx Transaction) error

	// Balance returns the sum of transaction points for one cell.
	// Cells with no transactions have balance 0.
	Balance(ctx context.Context, userID UserID, businessID BusinessID) (int64, error)

	// Balances returns every non-zero cell for a user, keyed by business.
	Balances(ctx context.Context, userID UserID) (map[BusinessID]int64, error)

	// History returns a user's transactions across all businesses,
	// most-recent-first. limit <= 0 means unbounded.
	History(ctx context.Context, userID UserID, limit int) ([]Transaction, error)

	// HistoryByBusiness returns every transaction recorded against a
	// business across all users, most-recent-first.
	HistoryByBusiness(ctx context.Context, businessID BusinessID) ([]Transaction, error)
}
