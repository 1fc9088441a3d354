package order

import (
	"context"

	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/infrastructure/metrics"
	orderdto "github.com/gigdesk/settlement-service/internal/usecase/dto/order"
	ledgerusecase "github.com/gigdesk/settlement-service/internal/usecase/ledger"
)

type OrderUsecase interface {
	CreateOrder(input *orderdto.CreateOrderInput) (*orderdto.OrderOutput, error)
	GetOrderByID(orderID string) (*domain.Order, error)
	Pay(ctx context.Context, input *orderdto.PayOrderInput) (*domain.Transaction, error)
	ReleaseEscrow(input *orderdto.ReleaseEscrowInput) (*domain.Transaction, error)
	CancelExpiredOrders(ctx context.Context) error
}

type DefaultOrderUsecase struct {
	orderRepo domain.OrderRepository
	ledger    ledgerusecase.LedgerUsecase
	gateway   domain.PaymentGateway
	publisher domain.SettlementPublisher
	metrics   *metrics.SettlementMetrics
}

func NewDefaultOrderUsecase(
	orderRepo domain.OrderRepository,
	ledgerUsecase ledgerusecase.LedgerUsecase,
	gateway domain.PaymentGateway,
	publisher domain.SettlementPublisher,
	settlementMetrics *metrics.SettlementMetrics,
) *DefaultOrderUsecase {
	return &DefaultOrderUsecase{
		orderRepo: orderRepo,
		ledger:    ledgerUsecase,
		gateway:   gateway,
		publisher: publisher,
		metrics:   settlementMetrics,
	}
}
