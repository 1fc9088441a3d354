package background

import (
	"context"
	"log"
	"time"

	"github.com/gigdesk/settlement-service/internal/usecase/ledger"
	"github.com/gigdesk/settlement-service/internal/usecase/order"
)

type BackgroundTasks struct {
	OrderUsecase  order.OrderUsecase
	LedgerUsecase ledger.LedgerUsecase
	SweepInterval time.Duration
}

func NewBackgroundTasks(orderUC order.OrderUsecase, ledgerUC ledger.LedgerUsecase, sweepInterval time.Duration) *BackgroundTasks {
	return &BackgroundTasks{
		OrderUsecase:  orderUC,
		LedgerUsecase: ledgerUC,
		SweepInterval: sweepInterval,
	}
}

func (bt *BackgroundTasks) StartAll(ctx context.Context) {
	go bt.startOrderAutoCancel(ctx)
	go bt.startStalePendingSweep(ctx)
}

func (bt *BackgroundTasks) startOrderAutoCancel(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.OrderUsecase.CancelExpiredOrders(ctx); err != nil {
				log.Printf("Auto-cancel error: %v\n", err)
			}
		}
	}
}

func (bt *BackgroundTasks) startStalePendingSweep(ctx context.Context) {
	ticker := time.NewTicker(bt.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := bt.LedgerUsecase.SweepStalePending(ctx); err != nil {
				log.Printf("Stale pending sweep error: %v\n", err)
			}
		}
	}
}
