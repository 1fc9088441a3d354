package dispute

import (
	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/infrastructure/metrics"
	disputedto "github.com/gigdesk/settlement-service/internal/usecase/dto/dispute"
	ledgerusecase "github.com/gigdesk/settlement-service/internal/usecase/ledger"
)

// A refund is a two-phase protocol: the client's request freezes the
// order into disputed and parks a pending refund entry; an admin's
// adjudication settles the entry, which either drives the refund
// transition or unfreezes the order.
type DisputeUsecase interface {
	RequestRefund(input *disputedto.RequestRefundInput) (*domain.Transaction, error)
	ResolveRefund(input *disputedto.ResolveRefundInput) (*domain.Transaction, error)
}

type DefaultDisputeUsecase struct {
	ledgerRepo domain.LedgerRepository
	orderRepo  domain.OrderRepository
	ledger     ledgerusecase.LedgerUsecase
	publisher  domain.SettlementPublisher
	metrics    *metrics.SettlementMetrics
}

func NewDefaultDisputeUsecase(
	ledgerRepo domain.LedgerRepository,
	orderRepo domain.OrderRepository,
	ledgerUsecase ledgerusecase.LedgerUsecase,
	publisher domain.SettlementPublisher,
	settlementMetrics *metrics.SettlementMetrics,
) *DefaultDisputeUsecase {
	return &DefaultDisputeUsecase{
		ledgerRepo: ledgerRepo,
		orderRepo:  orderRepo,
		ledger:     ledgerUsecase,
		publisher:  publisher,
		metrics:    settlementMetrics,
	}
}
