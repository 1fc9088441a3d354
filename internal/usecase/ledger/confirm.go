package ledger

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/usecase/escrow"
)

// Confirm settles a pending entry exactly once. The escrow transition
// and the entry's terminal status commit in the same database
// transaction; a duplicate confirmation (a retried webhook, or the
// sweeper racing a late gateway callback) observes the already
// settled entry and is reported as success.
func (uc *DefaultLedgerUsecase) Confirm(entryID string, outcome domain.Outcome, note string) (*domain.Transaction, error) {
	start := time.Now()

	entry, err := uc.ledgerRepo.SettleEntry(entryID, func(order *domain.Order, e *domain.Transaction) error {
		if !e.Pending() {
			return domain.ErrAlreadyProcessed
		}
		if e.OrderID != "" {
			if applyErr := escrow.Apply(order, e, outcome); applyErr != nil {
				return applyErr
			}
		}
		now := time.Now()
		e.SettledAt = &now
		if outcome == domain.OutcomeSucceeded {
			e.Status = domain.TxCompleted
		} else {
			e.Status = domain.TxFailed
		}
		if note != "" {
			e.Metadata = appendNote(e.Metadata, note)
		}
		return nil
	})
	if errors.Is(err, domain.ErrAlreadyProcessed) {
		slog.Info("duplicate confirmation ignored", "entry_id", entryID, "status", entry.Status)
		return entry, nil
	}
	if err != nil {
		uc.metrics.RecordSettleError()
		return nil, err
	}

	uc.metrics.RecordEntrySettled(string(entry.Type), string(outcome), entry.Amount)
	uc.metrics.RecordSettleDuration(time.Since(start).Seconds())
	uc.publishSettled(entry, outcome)
	return entry, nil
}

// ConfirmByIdempotencyKey resolves a gateway callback that carries the
// external reference rather than the internal entry id.
func (uc *DefaultLedgerUsecase) ConfirmByIdempotencyKey(key string, outcome domain.Outcome, note string) (*domain.Transaction, error) {
	entry, err := uc.ledgerRepo.GetEntryByIdempotencyKey(key)
	if err != nil {
		return nil, err
	}
	return uc.Confirm(entry.ID, outcome, note)
}

func (uc *DefaultLedgerUsecase) SetGatewayRef(entryID, gatewayRef string) error {
	return uc.ledgerRepo.SetGatewayRef(entryID, gatewayRef)
}

func (uc *DefaultLedgerUsecase) publishSettled(entry *domain.Transaction, outcome domain.Outcome) {
	event := domain.SettlementEvent{
		EntryID:      entry.ID,
		OrderID:      entry.OrderID,
		FreelancerID: entry.FreelancerID,
		Amount:       entry.Amount,
		Currency:     entry.Currency,
	}

	switch entry.Type {
	case domain.TypePayment:
		event.Kind = domain.EventPaymentHeld
		if outcome == domain.OutcomeFailed {
			event.Kind = domain.EventPaymentFailed
		}
	case domain.TypeRelease:
		if outcome == domain.OutcomeFailed {
			return
		}
		event.Kind = domain.EventEscrowPartial
		if order, err := uc.orderRepo.GetOrderByID(entry.OrderID); err == nil {
			event.ClientID = order.ClientID
			event.FreelancerID = order.FreelancerID
			if order.EscrowStatus == domain.EscrowReleased {
				event.Kind = domain.EventEscrowReleased
			}
		}
	case domain.TypeRefund:
		event.Kind = domain.EventRefundApproved
		if outcome == domain.OutcomeFailed {
			event.Kind = domain.EventRefundRejected
		}
	case domain.TypePayout:
		event.Kind = domain.EventPayoutIssued
		if outcome == domain.OutcomeFailed {
			event.Kind = domain.EventPayoutFailed
		}
	}

	go func() {
		if err := uc.publisher.PublishSettlement(event); err != nil {
			slog.Error("failed to publish settlement event", "kind", event.Kind, "entry_id", event.EntryID, "error", err.Error())
		}
	}()
}

func appendNote(metadata, note string) string {
	if metadata == "" {
		return note
	}
	return fmt.Sprintf("%s; %s", metadata, note)
}
