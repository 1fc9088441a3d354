package ledger

import (
	"context"
	"log"
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
)

// SweepStalePending fails pending entries that never received a
// confirmation within the TTL, returning their orders to the
// pre-entry state. The sweep goes through Confirm, so a real
// confirmation that lands first always wins: the sweep then hits
// the AlreadyProcessed check and becomes a no-op.
func (uc *DefaultLedgerUsecase) SweepStalePending(ctx context.Context) error {
	cutoff := time.Now().Add(-uc.pendingTTL)
	entries, err := uc.ledgerRepo.FindStalePending(cutoff)
	if err != nil {
		return err
	}

	for _, entry := range entries {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := uc.Confirm(entry.ID, domain.OutcomeFailed, "swept: no confirmation within TTL"); err != nil {
			log.Printf("sweep failed for entry %s: %v", entry.ID, err)
			continue
		}
		uc.metrics.RecordEntrySwept(string(entry.Type))
		go func(event domain.SettlementEvent) {
			if pubErr := uc.publisher.PublishSettlement(event); pubErr != nil {
				log.Printf("failed to publish sweep event for entry %s: %v", event.EntryID, pubErr)
			}
		}(domain.SettlementEvent{
			EntryID:      entry.ID,
			OrderID:      entry.OrderID,
			FreelancerID: entry.FreelancerID,
			Kind:         domain.EventEntrySwept,
			Amount:       entry.Amount,
			Currency:     entry.Currency,
		})
	}
	return nil
}
