/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  JSON structures for the HTTP surface. These decouple the internal
  domain model from the external contract: field renames don't break
  clients and DTOs stay pure data carriers. Validation happens in
  handlers, not here.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
*/
package api

import (
	"time"

	"github.com/warp/loyalty-engine/loyalty"
)

// =============================================================================
// CATALOG TYPES
// =============================================================================

// BusinessDTO represents a business in API responses.
type BusinessDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Category        string `json:"category"`
	Description     string `json:"description,omitempty"`
	PointsPerDollar int64  `json:"points_per_dollar"`
}

// RewardDTO represents a catalog reward.
type RewardDTO struct {
	ID             string `json:"id"`
	BusinessID     string `json:"business_id"`
	Title          string `json:"title"`
	Description    string `json:"description,omitempty"`
	PointsRequired int64  `json:"points_required"`
	Category       string `json:"category"`
}

// =============================================================================
// LEDGER TYPES
// =============================================================================

// TransactionDTO represents one ledger entry.
type TransactionDTO struct {
	ID          string `json:"id"`
	UserID      string `json:"user_id"`
	BusinessID  string `json:"business_id"`
	Points      int64  `json:"points"`
	Kind        string `json:"kind"`
	RewardID    string `json:"reward_id,omitempty"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// BalanceDTO is the per-business balance for a user.
type BalanceDTO struct {
	BusinessID string `json:"business_id"`
	Points     int64  `json:"points"`
}

// SnapshotDTO is the read-only per-user view handed to a presentation layer.
type SnapshotDTO struct {
	UserID      string           `json:"user_id"`
	TakenAt     string           `json:"taken_at"`
	TotalPoints int64            `json:"total_points"`
	Balances    []BalanceDTO     `json:"balances"`
	Recent      []TransactionDTO `json:"recent_transactions"`
}

// ProgressDTO reports progress toward the next reward.
type ProgressDTO struct {
	TotalPoints int64      `json:"total_points"`
	NextReward  *RewardDTO `json:"next_reward,omitempty"`
	PointsToGo  int64      `json:"points_to_go"`
}

// BusinessStatsDTO aggregates engagement for one business.
type BusinessStatsDTO struct {
	BusinessID     string `json:"business_id"`
	PointsIssued   int64  `json:"points_issued"`
	PointsRedeemed int64  `json:"points_redeemed"`
	Redemptions    int    `json:"redemptions"`
	Customers      int    `json:"customers"`
}

// =============================================================================
// REQUESTS
// =============================================================================

// EarnRequest credits points directly (e.g. a register reporting a purchase).
// Either points or amount must be set; amount is a dollar figure converted
// at the business earn rate.
type EarnRequest struct {
	BusinessID  string `json:"business_id"`
	Points      int64  `json:"points,omitempty"`
	Amount      string `json:"amount,omitempty"`
	Description string `json:"description,omitempty"`
}

// RedeemRequest spends points on a catalog reward.
type RedeemRequest struct {
	RewardID string `json:"reward_id"`
}

// ScanResultDTO is returned by the simulated scan action.
type ScanResultDTO struct {
	Business    BusinessDTO    `json:"business"`
	Points      int64          `json:"points"`
	Transaction TransactionDTO `json:"transaction"`
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toBusinessDTO(b loyalty.Business) BusinessDTO {
	return BusinessDTO{
		ID:              string(b.ID),
		Name:            b.Name,
		Category:        b.Category,
		Description:     b.Description,
		PointsPerDollar: b.PointsPerDollar,
	}
}

func toRewardDTO(r loyalty.Reward) RewardDTO {
	return RewardDTO{
		ID:             string(r.ID),
		BusinessID:     string(r.BusinessID),
		Title:          r.Title,
		Description:    r.Description,
		PointsRequired: r.PointsRequired,
		Category:       r.Category,
	}
}

func toTransactionDTO(tx loyalty.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:          string(tx.ID),
		UserID:      string(tx.UserID),
		BusinessID:  string(tx.BusinessID),
		Points:      tx.Points,
		Kind:        string(tx.Kind),
		RewardID:    string(tx.RewardID),
		Description: tx.Description,
		CreatedAt:   tx.CreatedAt.Format(time.RFC3339),
	}
}

func toTransactionDTOs(txs []loyalty.Transaction) []TransactionDTO {
	dtos := make([]TransactionDTO, len(txs))
	for i, tx := range txs {
		dtos[i] = toTransactionDTO(tx)
	}
	return dtos
}
