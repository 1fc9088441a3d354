package payout

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/usecase/balance"
	ledgerdto "github.com/gigdesk/settlement-service/internal/usecase/dto/ledger"
	payoutdto "github.com/gigdesk/settlement-service/internal/usecase/dto/payout"
	ledgerusecase "github.com/gigdesk/settlement-service/internal/usecase/ledger"
)

type PayoutUsecase interface {
	RequestPayout(ctx context.Context, input *payoutdto.RequestPayoutInput) (*domain.Transaction, error)
}

type DefaultPayoutUsecase struct {
	ledger     ledgerusecase.LedgerUsecase
	aggregator *balance.Aggregator
	gateway    domain.PaymentGateway
}

func NewDefaultPayoutUsecase(
	ledgerUsecase ledgerusecase.LedgerUsecase,
	aggregator *balance.Aggregator,
	gateway domain.PaymentGateway,
) *DefaultPayoutUsecase {
	return &DefaultPayoutUsecase{
		ledger:     ledgerUsecase,
		aggregator: aggregator,
		gateway:    gateway,
	}
}

// RequestPayout records a pending payout and hands it to the gateway.
// The withdrawal bound is enforced by the ledger inside the append,
// serialized per freelancer, so concurrent requests cannot jointly
// overdraw. Settlement arrives through the gateway webhook like any
// other external movement.
func (uc *DefaultPayoutUsecase) RequestPayout(ctx context.Context, input *payoutdto.RequestPayoutInput) (*domain.Transaction, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("%w: payout amount must be positive", domain.ErrInvalidAmount)
	}

	currency := input.Currency
	if currency == "" {
		bal, err := uc.aggregator.ComputeBalance(input.FreelancerID)
		if err != nil {
			return nil, err
		}
		currency = bal.Currency
	}

	entry, err := uc.ledger.RecordPending(&ledgerdto.RecordPendingInput{
		FreelancerID:   input.FreelancerID,
		Type:           domain.TypePayout,
		Amount:         input.Amount,
		Currency:       currency,
		IdempotencyKey: input.IdempotencyKey,
		Metadata:       fmt.Sprintf("payout requested by %s", input.FreelancerID),
	})
	if err != nil {
		return nil, err
	}
	if !entry.Pending() || entry.GatewayRef != "" {
		return entry, nil
	}

	payoutRef, err := uc.gateway.IssuePayout(ctx, input.FreelancerID, entry.Amount, entry.Currency, entry.IdempotencyKey)
	if err != nil {
		slog.Error("gateway payout failed", "freelancer_id", input.FreelancerID, "entry_id", entry.ID, "error", err.Error())
		if _, confirmErr := uc.ledger.Confirm(entry.ID, domain.OutcomeFailed, "gateway payout failed"); confirmErr != nil {
			return nil, confirmErr
		}
		return nil, fmt.Errorf("issue payout: %w", err)
	}
	if err := uc.ledger.SetGatewayRef(entry.ID, payoutRef); err != nil {
		return nil, err
	}
	entry.GatewayRef = payoutRef
	return entry, nil
}
