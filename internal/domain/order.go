package domain

import "time"

type FulfillmentStatus string

const (
	FulfillmentPending    FulfillmentStatus = "PENDING"
	FulfillmentAccepted   FulfillmentStatus = "ACCEPTED"
	FulfillmentInProgress FulfillmentStatus = "IN_PROGRESS"
	FulfillmentDisputed   FulfillmentStatus = "DISPUTED"
	FulfillmentCompleted  FulfillmentStatus = "COMPLETED"
	FulfillmentCancelled  FulfillmentStatus = "CANCELLED"
)

type EscrowStatus string

const (
	EscrowNone              EscrowStatus = "NONE"
	EscrowHeld              EscrowStatus = "HELD"
	EscrowPartiallyReleased EscrowStatus = "PARTIALLY_RELEASED"
	EscrowReleased          EscrowStatus = "RELEASED"
	EscrowRefunded          EscrowStatus = "REFUNDED"
)

// FeeSchedule is snapshotted into every order at creation, so a later
// rate change never alters historical orders.
type FeeSchedule struct {
	PlatformRateBps   int64
	ProcessingFixed   int64
	ProcessingRateBps int64
}

func (s FeeSchedule) PlatformFee(serviceAmount int64) int64 {
	return serviceAmount * s.PlatformRateBps / 10000
}

func (s FeeSchedule) ProcessingFee(serviceAmount int64) int64 {
	return s.ProcessingFixed + serviceAmount*s.ProcessingRateBps/10000
}

// Order is the financial record of a marketplace order. All amounts
// are integer minor currency units. Money fields are immutable after
// creation; the two status fields and the released/refunded running
// totals are written only through the escrow state machine inside the
// ledger settle transaction.
type Order struct {
	ID           string
	ClientID     string
	FreelancerID string

	ServiceAmount    int64
	PlatformFee      int64
	ProcessingFee    int64
	TotalAmount      int64
	FreelancerAmount int64
	Currency         string

	ReleasedAmount int64
	RefundedAmount int64

	FulfillmentStatus FulfillmentStatus
	EscrowStatus      EscrowStatus

	ExpiresAt time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// RemainingReleasable is how much of the freelancer payout is still
// owed out of escrow.
func (o *Order) RemainingReleasable() int64 {
	return o.FreelancerAmount - o.ReleasedAmount
}

// RemainingHeld is how much of the buyer's money the platform still
// holds, the upper bound of a refund.
func (o *Order) RemainingHeld() int64 {
	return o.TotalAmount - o.ReleasedAmount - o.RefundedAmount
}

func (o *Order) EscrowActive() bool {
	return o.EscrowStatus == EscrowHeld || o.EscrowStatus == EscrowPartiallyReleased
}

type OrderRepository interface {
	CreateOrder(order *Order) error
	GetOrderByID(orderID string) (*Order, error)
	ListByFreelancerID(freelancerID string) ([]*Order, error)
	FindExpiredUnpaid(now time.Time) ([]*Order, error)

	// WithOrder runs apply on the order inside a transaction that
	// holds the row lock for the order, then persists the mutated
	// order. An error from apply aborts the transaction.
	WithOrder(orderID string, apply func(order *Order) error) error
}
