package orderdto

import (
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
)

type CreateOrderInput struct {
	ClientID      string
	FreelancerID  string
	ServiceAmount int64
	Currency      string
	Fees          domain.FeeSchedule
	TTL           time.Duration
}

type PayOrderInput struct {
	OrderID        string
	ActorID        string
	IdempotencyKey string
}

type ReleaseEscrowInput struct {
	OrderID string
	ActorID string
	// Amount of 0 releases the full remaining freelancer amount.
	Amount         int64
	Reason         string
	IdempotencyKey string
}
