package order

import (
	"context"
	"log"
	"log/slog"
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/usecase/escrow"
)

// CancelExpiredOrders cancels orders that never received a completed
// payment within their payment window. Orders with money in escrow
// are never touched here.
func (uc *DefaultOrderUsecase) CancelExpiredOrders(ctx context.Context) error {
	orders, err := uc.orderRepo.FindExpiredUnpaid(time.Now())
	if err != nil {
		return err
	}

	for _, expired := range orders {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := uc.orderRepo.WithOrder(expired.ID, escrow.CancelUnpaid); err != nil {
			log.Printf("failed to cancel expired order %s: %v", expired.ID, err)
			continue
		}
		uc.metrics.RecordOrderExpired()
		go func(event domain.SettlementEvent) {
			if err := uc.publisher.PublishSettlement(event); err != nil {
				slog.Error("failed to publish order expired event", "order_id", event.OrderID, "error", err.Error())
			}
		}(domain.SettlementEvent{
			OrderID:      expired.ID,
			ClientID:     expired.ClientID,
			FreelancerID: expired.FreelancerID,
			Kind:         domain.EventOrderExpired,
			Amount:       expired.TotalAmount,
			Currency:     expired.Currency,
		})
	}
	return nil
}
