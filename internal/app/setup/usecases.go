package setup

import (
	"github.com/gigdesk/settlement-service/internal/usecase/balance"
	"github.com/gigdesk/settlement-service/internal/usecase/dispute"
	"github.com/gigdesk/settlement-service/internal/usecase/ledger"
	"github.com/gigdesk/settlement-service/internal/usecase/order"
	"github.com/gigdesk/settlement-service/internal/usecase/payout"
)

type UseCases struct {
	LedgerUsecase  ledger.LedgerUsecase
	OrderUsecase   order.OrderUsecase
	DisputeUsecase dispute.DisputeUsecase
	BalanceUsecase balance.BalanceUsecase
	PayoutUsecase  payout.PayoutUsecase
}

func InitializeUseCases(deps *Dependencies) *UseCases {
	repos := deps.Repositories

	ledgerUsecase := ledger.NewDefaultLedgerUsecase(
		repos.LedgerRepo,
		repos.OrderRepo,
		deps.Publisher,
		deps.Metrics,
		deps.Config.Sweeper.PendingTTL,
	)
	orderUsecase := order.NewDefaultOrderUsecase(
		repos.OrderRepo,
		ledgerUsecase,
		deps.Gateway,
		deps.Publisher,
		deps.Metrics,
	)
	disputeUsecase := dispute.NewDefaultDisputeUsecase(
		repos.LedgerRepo,
		repos.OrderRepo,
		ledgerUsecase,
		deps.Publisher,
		deps.Metrics,
	)
	aggregator := balance.NewAggregator(repos.OrderRepo, repos.LedgerRepo)
	payoutUsecase := payout.NewDefaultPayoutUsecase(ledgerUsecase, aggregator, deps.Gateway)

	return &UseCases{
		LedgerUsecase:  ledgerUsecase,
		OrderUsecase:   orderUsecase,
		DisputeUsecase: disputeUsecase,
		BalanceUsecase: aggregator,
		PayoutUsecase:  payoutUsecase,
	}
}
