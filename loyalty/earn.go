/*
earn.go - The EarnSource contract

PURPOSE:
  An EarnSource is any external producer of earn events: a simulated
  scan, a purchase at a register, a promotion engine. The engine makes
  no assumption about how often or how fast events arrive; it only
  requires the contract below. Ledger.Earn is the sole entry point for
  any such producer.

  Keeping the selection policy (which business, how many points) behind
  a one-method interface lets the deterministic ledger core be tested
  independently of any randomness (see scan/).
*/
package loyalty

import "context"

// EarnEvent is one "user earned Points at BusinessID" report.
// Points must be positive for the event to be recordable.
type EarnEvent struct {
	BusinessID  BusinessID
	Points      int64
	Description string
}

// EarnSource produces earn events. The source chooses the business and
// the amount; the ledger enforces the rest.
type EarnSource interface {
	Produce(ctx context.Context) (EarnEvent, error)
}

// Pump draws one event from a source and records it for a user. This is
// the seam a presentation-layer action (e.g. a scan button) calls.
type Pump struct {
	Source EarnSource
	Ledger *Ledger
}

// Record produces a single event and appends it to the user's ledger,
// returning both for display.
func (p *Pump) Record(ctx context.Context, userID UserID) (EarnEvent, Transaction, error) {
	event, err := p.Source.Produce(ctx)
	if err != nil {
		return EarnEvent{}, Transaction{}, err
	}

	tx, err := p.Ledger.Earn(ctx, userID, event.BusinessID, event.Points, event.Description)
	if err != nil {
		return EarnEvent{}, Transaction{}, err
	}
	return event, tx, nil
}
