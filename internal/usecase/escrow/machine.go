// Package escrow owns every post-creation write to an order's
// escrowStatus and fulfillmentStatus. No other code path is allowed
// to touch either field, which keeps the two from drifting apart.
package escrow

import (
	"fmt"

	"github.com/gigdesk/settlement-service/internal/domain"
)

// Apply drives the state transition for one confirmed ledger entry.
// It runs inside the settle transaction while the order row lock is
// held; the caller persists the mutated order.
//
//	none -> held -> {released | partially_released -> released | refunded}
//
// partially_released is re-entrant until the released total reaches
// the freelancer amount, at which point the state auto-advances to
// released.
func Apply(order *domain.Order, entry *domain.Transaction, outcome domain.Outcome) error {
	switch entry.Type {
	case domain.TypePayment:
		return applyPayment(order, entry, outcome)
	case domain.TypeRelease:
		return applyRelease(order, entry, outcome)
	case domain.TypeRefund:
		return applyRefund(order, entry, outcome)
	default:
		return fmt.Errorf("%w: no transition for entry type %s", domain.ErrIllegalTransition, entry.Type)
	}
}

func applyPayment(order *domain.Order, entry *domain.Transaction, outcome domain.Outcome) error {
	if order.EscrowStatus != domain.EscrowNone {
		return fmt.Errorf("%w: payment confirmed while escrow is %s", domain.ErrIllegalTransition, order.EscrowStatus)
	}
	if outcome == domain.OutcomeFailed {
		// Failed charge: order stays pending, escrow stays none.
		return nil
	}
	if entry.Amount != order.TotalAmount {
		return fmt.Errorf("%w: payment of %d settled against total %d", domain.ErrLedgerIntegrity, entry.Amount, order.TotalAmount)
	}
	order.EscrowStatus = domain.EscrowHeld
	order.FulfillmentStatus = domain.FulfillmentAccepted
	return nil
}

func applyRelease(order *domain.Order, entry *domain.Transaction, outcome domain.Outcome) error {
	if !order.EscrowActive() {
		return fmt.Errorf("%w: release confirmed while escrow is %s", domain.ErrIllegalTransition, order.EscrowStatus)
	}
	if outcome == domain.OutcomeFailed {
		return nil
	}
	if order.FulfillmentStatus == domain.FulfillmentDisputed {
		// An open dispute blocks releases until resolved.
		return fmt.Errorf("%w: release confirmed while order is disputed", domain.ErrIllegalTransition)
	}
	remaining := order.RemainingReleasable()
	if entry.Amount > remaining {
		return fmt.Errorf("%w: release of %d exceeds remaining releasable %d", domain.ErrLedgerIntegrity, entry.Amount, remaining)
	}
	order.ReleasedAmount += entry.Amount
	if entry.Amount == remaining {
		order.EscrowStatus = domain.EscrowReleased
		order.FulfillmentStatus = domain.FulfillmentCompleted
	} else {
		order.EscrowStatus = domain.EscrowPartiallyReleased
	}
	return nil
}

func applyRefund(order *domain.Order, entry *domain.Transaction, outcome domain.Outcome) error {
	if !order.EscrowActive() {
		return fmt.Errorf("%w: refund confirmed while escrow is %s", domain.ErrIllegalTransition, order.EscrowStatus)
	}
	if outcome == domain.OutcomeFailed {
		// Rejected or swept dispute: unfreeze the order. in_progress by
		// convention, a dispute implies work had started.
		if order.FulfillmentStatus == domain.FulfillmentDisputed {
			order.FulfillmentStatus = domain.FulfillmentInProgress
		}
		return nil
	}
	if entry.Amount > order.RemainingHeld() {
		return fmt.Errorf("%w: refund of %d exceeds remaining held %d", domain.ErrLedgerIntegrity, entry.Amount, order.RemainingHeld())
	}
	order.RefundedAmount += entry.Amount
	order.EscrowStatus = domain.EscrowRefunded
	order.FulfillmentStatus = domain.FulfillmentCancelled
	return nil
}

// CancelUnpaid expires an order that never received a completed
// payment. The only legal source state is pending/none.
func CancelUnpaid(order *domain.Order) error {
	if order.EscrowStatus != domain.EscrowNone || order.FulfillmentStatus != domain.FulfillmentPending {
		return fmt.Errorf("%w: cancel of order in %s/%s", domain.ErrIllegalTransition, order.FulfillmentStatus, order.EscrowStatus)
	}
	order.FulfillmentStatus = domain.FulfillmentCancelled
	return nil
}

// LegalPending reports whether a new pending entry of the given type
// may be recorded against the order's current state. This is the
// recordPending guard; confirm-time legality lives in Apply.
func LegalPending(order *domain.Order, entryType domain.TransactionType, amount int64) error {
	switch entryType {
	case domain.TypePayment:
		if order.EscrowStatus != domain.EscrowNone || order.FulfillmentStatus != domain.FulfillmentPending {
			return fmt.Errorf("%w: payment against order in %s/%s", domain.ErrIllegalTransition, order.FulfillmentStatus, order.EscrowStatus)
		}
		if amount != order.TotalAmount {
			return fmt.Errorf("%w: payment amount %d must equal order total %d", domain.ErrInvalidAmount, amount, order.TotalAmount)
		}
	case domain.TypeRelease:
		if !order.EscrowActive() {
			return fmt.Errorf("%w: release against escrow %s", domain.ErrIllegalTransition, order.EscrowStatus)
		}
		if order.FulfillmentStatus == domain.FulfillmentDisputed {
			return fmt.Errorf("%w: release against disputed order", domain.ErrIllegalTransition)
		}
		if amount <= 0 || amount > order.RemainingReleasable() {
			return fmt.Errorf("%w: release amount %d, remaining releasable %d", domain.ErrInvalidAmount, amount, order.RemainingReleasable())
		}
	case domain.TypeRefund:
		if !order.EscrowActive() {
			return fmt.Errorf("%w: refund against escrow %s", domain.ErrIllegalTransition, order.EscrowStatus)
		}
		if amount <= 0 || amount > order.RemainingHeld() {
			return fmt.Errorf("%w: refund amount %d, remaining held %d", domain.ErrInvalidAmount, amount, order.RemainingHeld())
		}
	default:
		return fmt.Errorf("%w: unknown entry type %s", domain.ErrIllegalTransition, entryType)
	}
	return nil
}
