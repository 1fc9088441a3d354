package orderdto

import (
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
)

type OrderOutput struct {
	OrderID           string                   `json:"order_id"`
	ClientID          string                   `json:"client_id"`
	FreelancerID      string                   `json:"freelancer_id"`
	ServiceAmount     int64                    `json:"service_amount"`
	PlatformFee       int64                    `json:"platform_fee"`
	ProcessingFee     int64                    `json:"processing_fee"`
	TotalAmount       int64                    `json:"total_amount"`
	FreelancerAmount  int64                    `json:"freelancer_amount"`
	ReleasedAmount    int64                    `json:"released_amount"`
	RefundedAmount    int64                    `json:"refunded_amount"`
	Currency          string                   `json:"currency"`
	FulfillmentStatus domain.FulfillmentStatus `json:"fulfillment_status"`
	EscrowStatus      domain.EscrowStatus      `json:"escrow_status"`
	ExpiresAt         time.Time                `json:"expires_at"`
	CreatedAt         time.Time                `json:"created_at"`
}

func ToOrderOutput(order *domain.Order) *OrderOutput {
	return &OrderOutput{
		OrderID:           order.ID,
		ClientID:          order.ClientID,
		FreelancerID:      order.FreelancerID,
		ServiceAmount:     order.ServiceAmount,
		PlatformFee:       order.PlatformFee,
		ProcessingFee:     order.ProcessingFee,
		TotalAmount:       order.TotalAmount,
		FreelancerAmount:  order.FreelancerAmount,
		ReleasedAmount:    order.ReleasedAmount,
		RefundedAmount:    order.RefundedAmount,
		Currency:          order.Currency,
		FulfillmentStatus: order.FulfillmentStatus,
		EscrowStatus:      order.EscrowStatus,
		ExpiresAt:         order.ExpiresAt,
		CreatedAt:         order.CreatedAt,
	}
}
