package domain

import "time"

type TransactionType string

const (
	TypePayment TransactionType = "PAYMENT"
	TypeRelease TransactionType = "RELEASE"
	TypeRefund  TransactionType = "REFUND"
	TypePayout  TransactionType = "PAYOUT"
)

type TransactionStatus string

const (
	TxPending   TransactionStatus = "PENDING"
	TxCompleted TransactionStatus = "COMPLETED"
	TxFailed    TransactionStatus = "FAILED"
)

type Outcome string

const (
	OutcomeSucceeded Outcome = "SUCCEEDED"
	OutcomeFailed    Outcome = "FAILED"
)

// Transaction is one ledger entry: a recorded money-movement intent
// and its outcome. The ledger is append-biased: amount and type are
// never edited after creation, corrections happen through
// compensating entries. Only Status, GatewayRef, Metadata and
// SettledAt change after insert.
type Transaction struct {
	ID      string
	OrderID string // empty for payout entries

	// FreelancerID is denormalized onto release and payout entries so
	// the balance aggregator can fold over the ledger without joins.
	FreelancerID string

	Type     TransactionType
	Status   TransactionStatus
	Amount   int64
	Currency string

	// IdempotencyKey ties the entry to one external reference. A
	// retried request with the same key observes the original entry.
	IdempotencyKey string
	GatewayRef     string

	// Metadata is an advisory audit trail (reason, requester, notes).
	// Never load-bearing for invariants.
	Metadata string

	CreatedAt time.Time
	SettledAt *time.Time
}

func (t *Transaction) Pending() bool {
	return t.Status == TxPending
}

type LedgerRepository interface {
	// AppendEntry inserts a pending entry inside a transaction that
	// holds the row lock for the entry's order. guard is called with
	// the locked order (nil for payout entries) and may both validate
	// legality and mutate the order (the dispute freeze); the mutated
	// order is persisted with the entry. A duplicate idempotency key,
	// or a second pending entry of the same type for the order,
	// returns ErrConflict.
	AppendEntry(entry *Transaction, guard func(order *Order) error) error

	// AppendPayoutEntry inserts a pending payout entry while holding a
	// lock that serializes all payout appends for the entry's
	// freelancer. guard receives the freelancer's ledger history as it
	// exists under that lock, so a balance bound checked there and the
	// insert are one atomic step. Duplicate idempotency key returns
	// ErrConflict.
	AppendPayoutEntry(entry *Transaction, guard func(history []*Transaction) error) error

	// SettleEntry reloads the entry and its order under the order row
	// lock and calls apply to drive the state transition; both records
	// are persisted in the same transaction. A non-pending entry
	// returns the entry as-is together with ErrAlreadyProcessed.
	SettleEntry(entryID string, apply func(order *Order, entry *Transaction) error) (*Transaction, error)

	// SetGatewayRef annotates a pending entry with the reference the
	// gateway returned for it.
	SetGatewayRef(entryID, gatewayRef string) error

	GetEntryByID(entryID string) (*Transaction, error)
	GetEntryByIdempotencyKey(key string) (*Transaction, error)
	ListByOrderID(orderID string) ([]*Transaction, error)
	ListByFreelancerID(freelancerID string) ([]*Transaction, error)
	FindStalePending(olderThan time.Time) ([]*Transaction, error)
}
