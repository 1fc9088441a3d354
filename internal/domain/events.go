package domain

// SettlementEvent is published to the message broker after a money
// movement settles or a dispute changes state. Publishing is
// fire-and-forget and never part of the settle transaction.
type SettlementEvent struct {
	EntryID      string `json:"entry_id,omitempty"`
	OrderID      string `json:"order_id,omitempty"`
	FreelancerID string `json:"freelancer_id,omitempty"`
	ClientID     string `json:"client_id,omitempty"`
	Kind         string `json:"kind"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Reason       string `json:"reason,omitempty"`
}

const (
	EventPaymentHeld     = "payment.held"
	EventPaymentFailed   = "payment.failed"
	EventEscrowReleased  = "escrow.released"
	EventEscrowPartial   = "escrow.partially_released"
	EventRefundRequested = "refund.requested"
	EventRefundApproved  = "refund.approved"
	EventRefundRejected  = "refund.rejected"
	EventPayoutIssued    = "payout.issued"
	EventPayoutFailed    = "payout.failed"
	EventOrderExpired    = "order.expired"
	EventEntrySwept      = "entry.swept"
)

type SettlementPublisher interface {
	PublishSettlement(event SettlementEvent) error
}
