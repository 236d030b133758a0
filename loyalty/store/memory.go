// Package store provides Store implementations.
package store

import (
	"context"
	"sync"

	"github.com/warp/loyalty-engine/loyalty"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (tests, session-scoped use)
// =============================================================================

// Memory keeps the transaction log and a per-cell balance cache in maps.
// The cache is updated in the same critical section as the append, so it
// can never drift from the log sum.
type Memory struct {
	mu       sync.RWMutex
	byUser   map[loyalty.UserID][]loyalty.Transaction
	byBiz    map[loyalty.BusinessID][]loyalty.Transaction
	balances map[loyalty.Cell]int64
}

func NewMemory() *Memory {
	return &Memory{
		byUser:   make(map[loyalty.UserID][]loyalty.Transaction),
		byBiz:    make(map[loyalty.BusinessID][]loyalty.Transaction),
		balances: make(map[loyalty.Cell]int64),
	}
}

// Append adds a single transaction. Append-only.
func (m *Memory) Append(_ context.Context, tx loyalty.Transaction) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byUser[tx.UserID] = append(m.byUser[tx.UserID], tx)
	m.byBiz[tx.BusinessID] = append(m.byBiz[tx.BusinessID], tx)

	cell := loyalty.Cell{UserID: tx.UserID, BusinessID: tx.BusinessID}
	m.balances[cell] += tx.Points
	return nil
}

func (m *Memory) Balance(_ context.Context, userID loyalty.UserID, businessID loyalty.BusinessID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[loyalty.Cell{UserID: userID, BusinessID: businessID}], nil
}

func (m *Memory) Balances(_ context.Context, userID loyalty.UserID) (map[loyalty.BusinessID]int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[loyalty.BusinessID]int64)
	for cell, points := range m.balances {
		if cell.UserID == userID && points != 0 {
			out[cell.BusinessID] = points
		}
	}
	return out, nil
}

// History returns the user's transactions most-recent-first. The per-user
// slice is in append order, so it is walked backwards.
func (m *Memory) History(_ context.Context, userID loyalty.UserID, limit int) ([]loyalty.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	txs := m.byUser[userID]
	n := len(txs)
	if limit > 0 && limit < n {
		n = limit
	}

	out := make([]loyalty.Transaction, 0, n)
	for i := len(txs) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, txs[i])
	}
	return out, nil
}

func (m *Memory) HistoryByBusiness(_ context.Context, businessID loyalty.BusinessID) ([]loyalty.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	txs := m.byBiz[businessID]
	out := make([]loyalty.Transaction, 0, len(txs))
	for i := len(txs) - 1; i >= 0; i-- {
		out = append(out, txs[i])
	}
	return out, nil
}

var _ loyalty.Store = (*Memory)(nil)
