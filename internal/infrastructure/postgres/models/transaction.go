package models

import (
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
)

type TransactionModel struct {
	ID           string `gorm:"primaryKey"`
	OrderID      string `gorm:"index:idx_order_id"`
	FreelancerID string `gorm:"index:idx_tx_freelancer_id"`

	Type     domain.TransactionType
	Status   domain.TransactionStatus `gorm:"index:idx_tx_status"`
	Amount   int64
	Currency string

	IdempotencyKey string `gorm:"uniqueIndex:idx_idempotency_key"`
	GatewayRef     string

	Metadata string

	CreatedAt time.Time `gorm:"index:idx_tx_created_at"`
	SettledAt *time.Time
}
