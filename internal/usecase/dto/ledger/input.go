package ledgerdto

import "github.com/gigdesk/settlement-service/internal/domain"

type RecordPendingInput struct {
	OrderID        string
	FreelancerID   string
	Type           domain.TransactionType
	Amount         int64
	Currency       string
	IdempotencyKey string
	Metadata       string
}
