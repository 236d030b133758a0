/*
errors.go - Centralized error types for the loyalty engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Callers match with errors.Is; structured errors carry extra context
  and unwrap to the matching sentinel.

ERROR CATEGORIES:
  1. Ledger errors - Invalid amounts, insufficient balance
  2. Catalog errors - Unknown business/reward identifiers

PROPAGATION:
  Every failure is returned synchronously and leaves the ledger exactly
  as it was before the call. Nothing here is retried by the engine.
*/
package loyalty

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidAmount is returned when a non-positive points value is
	// passed to Earn or Redeem.
	ErrInvalidAmount = errors.New("points must be positive")

	// ErrInsufficientBalance is returned when a redemption exceeds the
	// current balance. The caller may retry after earning more points.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrBusinessNotFound is returned for an unknown business identifier.
	ErrBusinessNotFound = errors.New("business not found")

	// ErrRewardNotFound is returned for an unknown reward identifier.
	ErrRewardNotFound = errors.New("reward not found")

	// ErrDuplicateCatalogID is returned when seeding a catalog with a
	// repeated business or reward identifier.
	ErrDuplicateCatalogID = errors.New("duplicate catalog identifier")

	// ErrDanglingReward is returned when a seeded reward references a
	// business that does not exist in the catalog.
	ErrDanglingReward = errors.New("reward references unknown business")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientBalanceError provides details about a balance shortage.
type InsufficientBalanceError struct {
	UserID     UserID
	BusinessID BusinessID
	Available  int64
	Requested  int64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient balance for %s at %s: available %d, requested %d",
		e.UserID, e.BusinessID, e.Available, e.Requested)
}

func (e *InsufficientBalanceError) Unwrap() error {
	return ErrInsufficientBalance
}

// Shortfall returns how many points are missing.
func (e *InsufficientBalanceError) Shortfall() int64 {
	return e.Requested - e.Available
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing catalog record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrBusinessNotFound) ||
		errors.Is(err, ErrRewardNotFound)
}

// IsClientError returns true if the error is due to invalid caller input
// rather than an engine or storage failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInsufficientBalance) ||
		IsNotFound(err)
}
