package ledger

import (
	"context"
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/infrastructure/metrics"
	ledgerdto "github.com/gigdesk/settlement-service/internal/usecase/dto/ledger"
	"github.com/jaevor/go-nanoid"
)

type LedgerUsecase interface {
	RecordPending(input *ledgerdto.RecordPendingInput) (*domain.Transaction, error)
	Confirm(entryID string, outcome domain.Outcome, note string) (*domain.Transaction, error)
	ConfirmByIdempotencyKey(key string, outcome domain.Outcome, note string) (*domain.Transaction, error)
	ListForOrder(orderID string) ([]*domain.Transaction, error)
	SetGatewayRef(entryID, gatewayRef string) error
	SweepStalePending(ctx context.Context) error
}

type DefaultLedgerUsecase struct {
	ledgerRepo domain.LedgerRepository
	orderRepo  domain.OrderRepository
	publisher  domain.SettlementPublisher
	metrics    *metrics.SettlementMetrics
	pendingTTL time.Duration
}

func NewDefaultLedgerUsecase(
	ledgerRepo domain.LedgerRepository,
	orderRepo domain.OrderRepository,
	publisher domain.SettlementPublisher,
	settlementMetrics *metrics.SettlementMetrics,
	pendingTTL time.Duration,
) *DefaultLedgerUsecase {
	return &DefaultLedgerUsecase{
		ledgerRepo: ledgerRepo,
		orderRepo:  orderRepo,
		publisher:  publisher,
		metrics:    settlementMetrics,
		pendingTTL: pendingTTL,
	}
}

func newEntryID() (string, error) {
	generate, err := nanoid.Standard(15)
	if err != nil {
		return "", err
	}
	return generate(), nil
}
