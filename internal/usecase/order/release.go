package order

import (
	"fmt"

	"github.com/gigdesk/settlement-service/internal/domain"
	ledgerdto "github.com/gigdesk/settlement-service/internal/usecase/dto/ledger"
	orderdto "github.com/gigdesk/settlement-service/internal/usecase/dto/order"
)

// ReleaseEscrow moves held funds to the freelancer-payable side. The
// client's call is itself the authorized confirmation, so the entry
// is recorded and settled in one pass; no external rail is involved
// until the freelancer withdraws.
func (uc *DefaultOrderUsecase) ReleaseEscrow(input *orderdto.ReleaseEscrowInput) (*domain.Transaction, error) {
	order, err := uc.orderRepo.GetOrderByID(input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.ClientID != input.ActorID {
		return nil, fmt.Errorf("%w: only the order's client may release escrow", domain.ErrUnauthorized)
	}

	amount := input.Amount
	if amount == 0 {
		amount = order.RemainingReleasable()
	}

	entry, err := uc.ledger.RecordPending(&ledgerdto.RecordPendingInput{
		OrderID:        order.ID,
		FreelancerID:   order.FreelancerID,
		Type:           domain.TypeRelease,
		Amount:         amount,
		Currency:       order.Currency,
		IdempotencyKey: input.IdempotencyKey,
		Metadata:       fmt.Sprintf("release requested by %s: %s", input.ActorID, input.Reason),
	})
	if err != nil {
		return nil, err
	}
	if !entry.Pending() {
		return entry, nil
	}

	return uc.ledger.Confirm(entry.ID, domain.OutcomeSucceeded, "")
}
