package order

import (
	"fmt"
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
	orderdto "github.com/gigdesk/settlement-service/internal/usecase/dto/order"
	"github.com/google/uuid"
)

const defaultPaymentWindow = 30 * time.Minute

// CreateOrder computes the fee breakdown from the snapshotted fee
// schedule and writes the record in pending/none. Money fields never
// change after this point.
func (uc *DefaultOrderUsecase) CreateOrder(input *orderdto.CreateOrderInput) (*orderdto.OrderOutput, error) {
	if input.ServiceAmount <= 0 {
		return nil, fmt.Errorf("%w: service amount must be positive", domain.ErrInvalidAmount)
	}
	if input.Currency == "" {
		return nil, fmt.Errorf("%w: currency required", domain.ErrInvalidAmount)
	}
	if input.ClientID == "" || input.FreelancerID == "" {
		return nil, fmt.Errorf("%w: client and freelancer required", domain.ErrInvalidAmount)
	}
	if input.ClientID == input.FreelancerID {
		return nil, fmt.Errorf("%w: client and freelancer must differ", domain.ErrInvalidAmount)
	}

	platformFee := input.Fees.PlatformFee(input.ServiceAmount)
	processingFee := input.Fees.ProcessingFee(input.ServiceAmount)

	ttl := input.TTL
	if ttl <= 0 {
		ttl = defaultPaymentWindow
	}

	now := time.Now()
	order := &domain.Order{
		ID:                uuid.New().String(),
		ClientID:          input.ClientID,
		FreelancerID:      input.FreelancerID,
		ServiceAmount:     input.ServiceAmount,
		PlatformFee:       platformFee,
		ProcessingFee:     processingFee,
		TotalAmount:       input.ServiceAmount + platformFee + processingFee,
		FreelancerAmount:  input.ServiceAmount,
		Currency:          input.Currency,
		FulfillmentStatus: domain.FulfillmentPending,
		EscrowStatus:      domain.EscrowNone,
		ExpiresAt:         now.Add(ttl),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.orderRepo.CreateOrder(order); err != nil {
		return nil, err
	}

	uc.metrics.RecordOrderCreated(order.Currency, order.TotalAmount)
	return orderdto.ToOrderOutput(order), nil
}
