/*
Package sqlite provides a SQLite-backed implementation of loyalty.Store.

PURPOSE:
  Durable persistence for the transaction log. The same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on the transactions table
  - No DELETE statements on the transactions table
  Balance is computed with SUM over the cell's rows, so whatever is
  restored from disk satisfies balance == sum of transactions by
  construction.

ORDERING:
  Rows carry a monotonic seq (AUTOINCREMENT) used as the tie-break for
  most-recent-first reads when timestamps collide.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

USAGE:
  store, err := sqlite.New("./data/loyalty.db")  // or ":memory:"
  ledger := loyalty.NewLedger(store)

SEE ALSO:
  - loyalty/store.go: Interface definition
  - loyalty/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/loyalty-engine/loyalty"
)

// Store implements loyalty.Store using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Transactions (append-only ledger)
	CREATE TABLE IF NOT EXISTS transactions (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		user_id TEXT NOT NULL,
		business_id TEXT NOT NULL,
		points INTEGER NOT NULL,
		kind TEXT NOT NULL,
		reward_id TEXT,
		description TEXT,
		created_at TEXT NOT NULL
	);

	-- Balance calculation (hot path)
	CREATE INDEX IF NOT EXISTS idx_transactions_cell
		ON transactions(user_id, business_id);

	-- Per-user history, newest first
	CREATE INDEX IF NOT EXISTS idx_transactions_user_seq
		ON transactions(user_id, seq DESC);

	-- Business engagement queries
	CREATE INDEX IF NOT EXISTS idx_transactions_business_seq
		ON transactions(business_id, seq DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// STORE INTERFACE
// =============================================================================

// Append inserts one transaction row. This is the only write in the package.
func (s *Store) Append(ctx context.Context, tx loyalty.Transaction) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (id, user_id, business_id, points, kind, reward_id, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(tx.ID),
		string(tx.UserID),
		string(tx.BusinessID),
		tx.Points,
		string(tx.Kind),
		nullable(string(tx.RewardID)),
		tx.Description,
		tx.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to append transaction: %w", err)
	}
	return nil
}

func (s *Store) Balance(ctx context.Context, userID loyalty.UserID, businessID loyalty.BusinessID) (int64, error) {
	var balance int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(points), 0) FROM transactions
		WHERE user_id = ? AND business_id = ?`,
		string(userID), string(businessID),
	).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to compute balance: %w", err)
	}
	return balance, nil
}

func (s *Store) Balances(ctx context.Context, userID loyalty.UserID) (map[loyalty.BusinessID]int64, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT business_id, SUM(points) FROM transactions
		WHERE user_id = ?
		GROUP BY business_id
		HAVING SUM(points) != 0`,
		string(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load balances: %w", err)
	}
	defer rows.Close()

	out := make(map[loyalty.BusinessID]int64)
	for rows.Next() {
		var businessID string
		var points int64
		if err := rows.Scan(&businessID, &points); err != nil {
			return nil, err
		}
		out[loyalty.BusinessID(businessID)] = points
	}
	return out, rows.Err()
}

func (s *Store) History(ctx context.Context, userID loyalty.UserID, limit int) ([]loyalty.Transaction, error) {
	query := `
		SELECT id, user_id, business_id, points, kind, reward_id, description, created_at
		FROM transactions
		WHERE user_id = ?
		ORDER BY seq DESC`
	args := []any{string(userID)}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

func (s *Store) HistoryByBusiness(ctx context.Context, businessID loyalty.BusinessID) ([]loyalty.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, business_id, points, kind, reward_id, description, created_at
		FROM transactions
		WHERE business_id = ?
		ORDER BY seq DESC`,
		string(businessID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load business history: %w", err)
	}
	defer rows.Close()

	return scanTransactions(rows)
}

var _ loyalty.Store = (*Store)(nil)

// =============================================================================
// ROW HELPERS
// =============================================================================

func scanTransactions(rows *sql.Rows) ([]loyalty.Transaction, error) {
	var out []loyalty.Transaction
	for rows.Next() {
		var (
			id, userID, businessID, kind, description, createdAt string
			rewardID                                             sql.NullString
			points                                               int64
		)
		if err := rows.Scan(&id, &userID, &businessID, &points, &kind, &rewardID, &description, &createdAt); err != nil {
			return nil, err
		}

		at, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse transaction timestamp: %w", err)
		}

		out = append(out, loyalty.Transaction{
			ID:          loyalty.TransactionID(id),
			UserID:      loyalty.UserID(userID),
			BusinessID:  loyalty.BusinessID(businessID),
			Points:      points,
			Kind:        loyalty.TransactionKind(kind),
			RewardID:    loyalty.RewardID(rewardID.String),
			Description: description,
			CreatedAt:   at,
		})
	}
	return out, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
