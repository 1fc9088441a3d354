package dispute

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jaevor/go-nanoid"

	"github.com/gigdesk/settlement-service/internal/domain"
	disputedto "github.com/gigdesk/settlement-service/internal/usecase/dto/dispute"
	"github.com/gigdesk/settlement-service/internal/usecase/escrow"
)

// RequestRefund freezes the order into disputed and records a pending
// refund entry in the same transaction. No money moves: the entry
// blocks further releases until an admin resolves it.
func (uc *DefaultDisputeUsecase) RequestRefund(input *disputedto.RequestRefundInput) (*domain.Transaction, error) {
	if input.Reason == "" {
		return nil, fmt.Errorf("%w: refund reason required", domain.ErrInvalidAmount)
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: refund amount must be positive", domain.ErrInvalidAmount)
	}
	if input.IdempotencyKey == "" {
		return nil, fmt.Errorf("%w: idempotency key required", domain.ErrInvalidAmount)
	}

	order, err := uc.orderRepo.GetOrderByID(input.OrderID)
	if err != nil {
		return nil, err
	}
	if order.ClientID != input.ActorID {
		return nil, fmt.Errorf("%w: only the order's client may request a refund", domain.ErrUnauthorized)
	}

	if existing, err := uc.ledgerRepo.GetEntryByIdempotencyKey(input.IdempotencyKey); err == nil {
		return existing, nil
	}

	generate, err := nanoid.Standard(15)
	if err != nil {
		return nil, err
	}
	entry := &domain.Transaction{
		ID:             generate(),
		OrderID:        order.ID,
		Type:           domain.TypeRefund,
		Status:         domain.TxPending,
		Amount:         input.Amount,
		Currency:       order.Currency,
		IdempotencyKey: input.IdempotencyKey,
		Metadata:       fmt.Sprintf("reason: %s; requested by %s; prior status %s", input.Reason, input.ActorID, order.FulfillmentStatus),
		CreatedAt:      time.Now(),
	}

	err = uc.ledgerRepo.AppendEntry(entry, func(locked *domain.Order) error {
		if guardErr := escrow.LegalPending(locked, domain.TypeRefund, input.Amount); guardErr != nil {
			return guardErr
		}
		locked.FulfillmentStatus = domain.FulfillmentDisputed
		return nil
	})
	if errors.Is(err, domain.ErrConflict) {
		if existing, getErr := uc.ledgerRepo.GetEntryByIdempotencyKey(input.IdempotencyKey); getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("%w: a pending refund already exists for order %s", domain.ErrConflict, order.ID)
	}
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordDisputeOpened()
	go func(event domain.SettlementEvent) {
		if pubErr := uc.publisher.PublishSettlement(event); pubErr != nil {
			slog.Error("failed to publish refund requested event", "order_id", event.OrderID, "error", pubErr.Error())
		}
	}(domain.SettlementEvent{
		EntryID:      entry.ID,
		OrderID:      order.ID,
		ClientID:     order.ClientID,
		FreelancerID: order.FreelancerID,
		Kind:         domain.EventRefundRequested,
		Amount:       entry.Amount,
		Currency:     entry.Currency,
		Reason:       input.Reason,
	})
	return entry, nil
}
