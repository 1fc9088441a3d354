package dispute

import (
	"fmt"

	"github.com/gigdesk/settlement-service/internal/domain"
	disputedto "github.com/gigdesk/settlement-service/internal/usecase/dto/dispute"
)

const (
	DecisionApprove = "approve"
	DecisionReject  = "reject"
)

// ResolveRefund adjudicates a pending refund. Approval settles the
// entry as succeeded, driving the refund transition; rejection
// settles it as failed and unfreezes the order back to in_progress.
// Replayed resolutions land on the AlreadyProcessed check inside
// Confirm and return the settled entry unchanged.
func (uc *DefaultDisputeUsecase) ResolveRefund(input *disputedto.ResolveRefundInput) (*domain.Transaction, error) {
	entry, err := uc.ledgerRepo.GetEntryByID(input.EntryID)
	if err != nil {
		return nil, err
	}
	if entry.Type != domain.TypeRefund {
		return nil, fmt.Errorf("%w: entry %s is not a refund", domain.ErrIllegalTransition, entry.ID)
	}

	var outcome domain.Outcome
	switch input.Decision {
	case DecisionApprove:
		outcome = domain.OutcomeSucceeded
	case DecisionReject:
		outcome = domain.OutcomeFailed
	default:
		return nil, fmt.Errorf("%w: unknown decision %q", domain.ErrInvalidAmount, input.Decision)
	}

	note := fmt.Sprintf("resolved %s by %s", input.Decision, input.ActorID)
	if input.Notes != "" {
		note = fmt.Sprintf("%s: %s", note, input.Notes)
	}

	settled, err := uc.ledger.Confirm(entry.ID, outcome, note)
	if err != nil {
		return nil, err
	}
	uc.metrics.RecordDisputeResolved(input.Decision)
	return settled, nil
}
