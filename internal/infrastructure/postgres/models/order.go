package models

import (
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
)

type OrderModel struct {
	ID           string `gorm:"primaryKey;type:uuid"`
	ClientID     string `gorm:"index:idx_client_id"`
	FreelancerID string `gorm:"index:idx_freelancer_id"`

	ServiceAmount    int64
	PlatformFee      int64
	ProcessingFee    int64
	TotalAmount      int64
	FreelancerAmount int64
	Currency         string

	ReleasedAmount int64
	RefundedAmount int64

	FulfillmentStatus domain.FulfillmentStatus `gorm:"index:idx_fulfillment_expires"`
	EscrowStatus      domain.EscrowStatus

	ExpiresAt time.Time `gorm:"index:idx_fulfillment_expires"`
	CreatedAt time.Time `gorm:"index:idx_created_at"`
	UpdatedAt time.Time
}
