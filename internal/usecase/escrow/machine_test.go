package escrow

import (
	"testing"

	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func heldOrder() *domain.Order {
	return &domain.Order{
		ID:                "order-1",
		ClientID:          "client-1",
		FreelancerID:      "freelancer-1",
		ServiceAmount:     10000,
		PlatformFee:       1000,
		ProcessingFee:     330,
		TotalAmount:       11330,
		FreelancerAmount:  10000,
		Currency:          "USD",
		FulfillmentStatus: domain.FulfillmentAccepted,
		EscrowStatus:      domain.EscrowHeld,
	}
}

func paymentEntry(amount int64) *domain.Transaction {
	return &domain.Transaction{ID: "e1", OrderID: "order-1", Type: domain.TypePayment, Amount: amount}
}

func TestApplyPayment(t *testing.T) {
	t.Run("succeeded payment holds escrow", func(t *testing.T) {
		order := heldOrder()
		order.EscrowStatus = domain.EscrowNone
		order.FulfillmentStatus = domain.FulfillmentPending

		err := Apply(order, paymentEntry(11330), domain.OutcomeSucceeded)

		require.NoError(t, err)
		assert.Equal(t, domain.EscrowHeld, order.EscrowStatus)
		assert.Equal(t, domain.FulfillmentAccepted, order.FulfillmentStatus)
	})

	t.Run("failed payment leaves order pending", func(t *testing.T) {
		order := heldOrder()
		order.EscrowStatus = domain.EscrowNone
		order.FulfillmentStatus = domain.FulfillmentPending

		err := Apply(order, paymentEntry(11330), domain.OutcomeFailed)

		require.NoError(t, err)
		assert.Equal(t, domain.EscrowNone, order.EscrowStatus)
		assert.Equal(t, domain.FulfillmentPending, order.FulfillmentStatus)
	})

	t.Run("second payment against held escrow is illegal", func(t *testing.T) {
		order := heldOrder()

		err := Apply(order, paymentEntry(11330), domain.OutcomeSucceeded)

		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	})

	t.Run("amount mismatch is a ledger integrity error", func(t *testing.T) {
		order := heldOrder()
		order.EscrowStatus = domain.EscrowNone
		order.FulfillmentStatus = domain.FulfillmentPending

		err := Apply(order, paymentEntry(500), domain.OutcomeSucceeded)

		assert.ErrorIs(t, err, domain.ErrLedgerIntegrity)
	})
}

func releaseEntry(amount int64) *domain.Transaction {
	return &domain.Transaction{ID: "e2", OrderID: "order-1", Type: domain.TypeRelease, Amount: amount}
}

func TestApplyRelease(t *testing.T) {
	t.Run("full release completes the order", func(t *testing.T) {
		order := heldOrder()

		err := Apply(order, releaseEntry(10000), domain.OutcomeSucceeded)

		require.NoError(t, err)
		assert.Equal(t, domain.EscrowReleased, order.EscrowStatus)
		assert.Equal(t, domain.FulfillmentCompleted, order.FulfillmentStatus)
		assert.EqualValues(t, 10000, order.ReleasedAmount)
	})

	t.Run("partial release is re-entrant and auto-advances", func(t *testing.T) {
		order := heldOrder()

		require.NoError(t, Apply(order, releaseEntry(4000), domain.OutcomeSucceeded))
		assert.Equal(t, domain.EscrowPartiallyReleased, order.EscrowStatus)
		assert.EqualValues(t, 6000, order.RemainingReleasable())

		require.NoError(t, Apply(order, releaseEntry(3000), domain.OutcomeSucceeded))
		assert.Equal(t, domain.EscrowPartiallyReleased, order.EscrowStatus)

		require.NoError(t, Apply(order, releaseEntry(3000), domain.OutcomeSucceeded))
		assert.Equal(t, domain.EscrowReleased, order.EscrowStatus)
		assert.Equal(t, domain.FulfillmentCompleted, order.FulfillmentStatus)
	})

	t.Run("over-release is a ledger integrity error", func(t *testing.T) {
		order := heldOrder()

		err := Apply(order, releaseEntry(10001), domain.OutcomeSucceeded)

		assert.ErrorIs(t, err, domain.ErrLedgerIntegrity)
	})

	t.Run("release against non-active escrow is illegal", func(t *testing.T) {
		order := heldOrder()
		order.EscrowStatus = domain.EscrowRefunded

		err := Apply(order, releaseEntry(1000), domain.OutcomeSucceeded)

		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	})

	t.Run("release blocked while disputed", func(t *testing.T) {
		order := heldOrder()
		order.FulfillmentStatus = domain.FulfillmentDisputed

		err := Apply(order, releaseEntry(1000), domain.OutcomeSucceeded)

		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
	})
}

func refundEntry(amount int64) *domain.Transaction {
	return &domain.Transaction{ID: "e3", OrderID: "order-1", Type: domain.TypeRefund, Amount: amount}
}

func TestApplyRefund(t *testing.T) {
	t.Run("approved refund cancels the order", func(t *testing.T) {
		order := heldOrder()
		order.FulfillmentStatus = domain.FulfillmentDisputed

		err := Apply(order, refundEntry(11330), domain.OutcomeSucceeded)

		require.NoError(t, err)
		assert.Equal(t, domain.EscrowRefunded, order.EscrowStatus)
		assert.Equal(t, domain.FulfillmentCancelled, order.FulfillmentStatus)
		assert.EqualValues(t, 11330, order.RefundedAmount)
	})

	t.Run("rejected refund unfreezes the order", func(t *testing.T) {
		order := heldOrder()
		order.FulfillmentStatus = domain.FulfillmentDisputed

		err := Apply(order, refundEntry(4000), domain.OutcomeFailed)

		require.NoError(t, err)
		assert.Equal(t, domain.EscrowHeld, order.EscrowStatus)
		assert.Equal(t, domain.FulfillmentInProgress, order.FulfillmentStatus)
		assert.Zero(t, order.RefundedAmount)
	})

	t.Run("partial refund after partial release", func(t *testing.T) {
		order := heldOrder()
		require.NoError(t, Apply(order, releaseEntry(4000), domain.OutcomeSucceeded))

		err := Apply(order, refundEntry(7330), domain.OutcomeSucceeded)

		require.NoError(t, err)
		assert.Equal(t, domain.EscrowRefunded, order.EscrowStatus)
		assert.Zero(t, order.RemainingHeld())
	})

	t.Run("refund above remaining held is a ledger integrity error", func(t *testing.T) {
		order := heldOrder()
		require.NoError(t, Apply(order, releaseEntry(4000), domain.OutcomeSucceeded))

		err := Apply(order, refundEntry(8000), domain.OutcomeSucceeded)

		assert.ErrorIs(t, err, domain.ErrLedgerIntegrity)
	})
}

func TestCancelUnpaid(t *testing.T) {
	t.Run("cancels a pending unpaid order", func(t *testing.T) {
		order := heldOrder()
		order.EscrowStatus = domain.EscrowNone
		order.FulfillmentStatus = domain.FulfillmentPending

		require.NoError(t, CancelUnpaid(order))
		assert.Equal(t, domain.FulfillmentCancelled, order.FulfillmentStatus)
	})

	t.Run("never touches an order with held escrow", func(t *testing.T) {
		order := heldOrder()

		err := CancelUnpaid(order)

		assert.ErrorIs(t, err, domain.ErrIllegalTransition)
		assert.Equal(t, domain.FulfillmentAccepted, order.FulfillmentStatus)
	})
}

func TestLegalPending(t *testing.T) {
	t.Run("payment must match the order total", func(t *testing.T) {
		order := heldOrder()
		order.EscrowStatus = domain.EscrowNone
		order.FulfillmentStatus = domain.FulfillmentPending

		assert.NoError(t, LegalPending(order, domain.TypePayment, 11330))
		assert.ErrorIs(t, LegalPending(order, domain.TypePayment, 11329), domain.ErrInvalidAmount)
	})

	t.Run("release requires active escrow and no dispute", func(t *testing.T) {
		order := heldOrder()
		assert.NoError(t, LegalPending(order, domain.TypeRelease, 10000))

		order.FulfillmentStatus = domain.FulfillmentDisputed
		assert.ErrorIs(t, LegalPending(order, domain.TypeRelease, 10000), domain.ErrIllegalTransition)
	})

	t.Run("refund bounded by remaining held", func(t *testing.T) {
		order := heldOrder()
		assert.NoError(t, LegalPending(order, domain.TypeRefund, 11330))
		assert.ErrorIs(t, LegalPending(order, domain.TypeRefund, 11331), domain.ErrInvalidAmount)
	})
}
