package order

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gigdesk/settlement-service/internal/domain"
	ledgerdto "github.com/gigdesk/settlement-service/internal/usecase/dto/ledger"
	orderdto "github.com/gigdesk/settlement-service/internal/usecase/dto/order"
)

// Pay records a pending payment entry for the full order total and
// asks the gateway to authorize the charge. The gateway call happens
// after the ledger write and outside any order lock; its asynchronous
// confirmation settles the entry.
func (uc *DefaultOrderUsecase) Pay(ctx context.Context, input *orderdto.PayOrderInput) (*domain.Transaction, error) {
	order, err := uc.orderRepo.GetOrderByID(input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.ClientID != input.ActorID {
		return nil, fmt.Errorf("%w: only the order's client may pay", domain.ErrUnauthorized)
	}

	entry, err := uc.ledger.RecordPending(&ledgerdto.RecordPendingInput{
		OrderID:        order.ID,
		Type:           domain.TypePayment,
		Amount:         order.TotalAmount,
		Currency:       order.Currency,
		IdempotencyKey: input.IdempotencyKey,
		Metadata:       fmt.Sprintf("payment requested by %s", input.ActorID),
	})
	if err != nil {
		return nil, err
	}
	if !entry.Pending() || entry.GatewayRef != "" {
		// Idempotent retry of an entry already handed to the gateway.
		return entry, nil
	}

	gatewayRef, err := uc.gateway.AuthorizeCharge(ctx, order.TotalAmount, order.Currency, entry.IdempotencyKey)
	if err != nil {
		slog.Error("gateway authorize failed", "order_id", order.ID, "entry_id", entry.ID, "error", err.Error())
		if _, confirmErr := uc.ledger.Confirm(entry.ID, domain.OutcomeFailed, "gateway authorize failed"); confirmErr != nil {
			return nil, confirmErr
		}
		return nil, fmt.Errorf("authorize charge: %w", err)
	}
	if err := uc.ledger.SetGatewayRef(entry.ID, gatewayRef); err != nil {
		return nil, err
	}
	entry.GatewayRef = gatewayRef
	return entry, nil
}
