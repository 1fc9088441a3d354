package ledger

import "github.com/gigdesk/settlement-service/internal/domain"

// ListForOrder returns the order's audit trail, oldest first.
func (uc *DefaultLedgerUsecase) ListForOrder(orderID string) ([]*domain.Transaction, error) {
	return uc.ledgerRepo.ListByOrderID(orderID)
}
