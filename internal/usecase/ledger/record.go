package ledger

import (
	"errors"
	"fmt"
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/usecase/balance"
	ledgerdto "github.com/gigdesk/settlement-service/internal/usecase/dto/ledger"
	"github.com/gigdesk/settlement-service/internal/usecase/escrow"
)

// RecordPending appends a pending entry after checking the requested
// movement is legal against the order's current escrow state. A retry
// with the same idempotency key observes the original entry instead
// of erroring, which is what makes gateway retries safe.
func (uc *DefaultLedgerUsecase) RecordPending(input *ledgerdto.RecordPendingInput) (*domain.Transaction, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", domain.ErrInvalidAmount)
	}
	if input.IdempotencyKey == "" {
		return nil, fmt.Errorf("%w: idempotency key required", domain.ErrInvalidAmount)
	}
	if input.Type == domain.TypePayout {
		if input.FreelancerID == "" {
			return nil, fmt.Errorf("%w: payout requires a freelancer", domain.ErrInvalidAmount)
		}
		if input.OrderID != "" {
			return nil, fmt.Errorf("%w: payout entries carry no order", domain.ErrInvalidAmount)
		}
	} else if input.OrderID == "" {
		return nil, fmt.Errorf("%w: order id required", domain.ErrInvalidAmount)
	}

	if existing, err := uc.ledgerRepo.GetEntryByIdempotencyKey(input.IdempotencyKey); err == nil {
		return existing, nil
	}

	entryID, err := newEntryID()
	if err != nil {
		return nil, err
	}
	entry := &domain.Transaction{
		ID:             entryID,
		OrderID:        input.OrderID,
		FreelancerID:   input.FreelancerID,
		Type:           input.Type,
		Status:         domain.TxPending,
		Amount:         input.Amount,
		Currency:       input.Currency,
		IdempotencyKey: input.IdempotencyKey,
		Metadata:       input.Metadata,
		CreatedAt:      time.Now(),
	}

	if input.Type == domain.TypePayout {
		// The withdrawal bound is checked inside the append's critical
		// section: the repository serializes payout appends per
		// freelancer, so two concurrent requests cannot both pass the
		// bound and jointly overdraw.
		err = uc.ledgerRepo.AppendPayoutEntry(entry, func(history []*domain.Transaction) error {
			if withdrawable := balance.WithdrawableFrom(history); entry.Amount > withdrawable {
				return fmt.Errorf("%w: payout of %d exceeds withdrawable balance %d",
					domain.ErrInvalidAmount, entry.Amount, withdrawable)
			}
			return nil
		})
	} else {
		err = uc.ledgerRepo.AppendEntry(entry, func(order *domain.Order) error {
			return escrow.LegalPending(order, input.Type, input.Amount)
		})
	}
	if errors.Is(err, domain.ErrConflict) {
		// Either a concurrent insert with the same key won the race, in
		// which case the caller gets the winner's entry, or a second
		// pending entry of the same type exists under a different key,
		// which stays a conflict.
		if existing, getErr := uc.ledgerRepo.GetEntryByIdempotencyKey(input.IdempotencyKey); getErr == nil {
			return existing, nil
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	uc.metrics.RecordEntryRecorded(string(input.Type))
	return entry, nil
}
