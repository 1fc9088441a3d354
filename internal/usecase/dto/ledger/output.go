package ledgerdto

import (
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
)

type EntryOutput struct {
	EntryID        string                   `json:"entry_id"`
	OrderID        string                   `json:"order_id,omitempty"`
	FreelancerID   string                   `json:"freelancer_id,omitempty"`
	Type           domain.TransactionType   `json:"type"`
	Status         domain.TransactionStatus `json:"status"`
	Amount         int64                    `json:"amount"`
	Currency       string                   `json:"currency"`
	IdempotencyKey string                   `json:"idempotency_key"`
	GatewayRef     string                   `json:"gateway_ref,omitempty"`
	Metadata       string                   `json:"metadata,omitempty"`
	CreatedAt      time.Time                `json:"created_at"`
	SettledAt      *time.Time               `json:"settled_at,omitempty"`
}

func ToEntryOutput(entry *domain.Transaction) *EntryOutput {
	return &EntryOutput{
		EntryID:        entry.ID,
		OrderID:        entry.OrderID,
		FreelancerID:   entry.FreelancerID,
		Type:           entry.Type,
		Status:         entry.Status,
		Amount:         entry.Amount,
		Currency:       entry.Currency,
		IdempotencyKey: entry.IdempotencyKey,
		GatewayRef:     entry.GatewayRef,
		Metadata:       entry.Metadata,
		CreatedAt:      entry.CreatedAt,
		SettledAt:      entry.SettledAt,
	}
}
