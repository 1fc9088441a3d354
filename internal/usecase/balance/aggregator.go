// Package balance derives a freelancer's balances by folding over the
// ledger. It never writes and is safe to recompute at any time, which
// makes it the canonical drift detector for the ledger.
package balance

import "github.com/gigdesk/settlement-service/internal/domain"

type BalanceUsecase interface {
	ComputeBalance(freelancerID string) (*domain.Balance, error)
	PendingPayouts(freelancerID string) (int64, error)
}

type Aggregator struct {
	orderRepo  domain.OrderRepository
	ledgerRepo domain.LedgerRepository
}

func NewAggregator(orderRepo domain.OrderRepository, ledgerRepo domain.LedgerRepository) *Aggregator {
	return &Aggregator{orderRepo: orderRepo, ledgerRepo: ledgerRepo}
}

// ComputeBalance folds the freelancer's orders and ledger entries:
// pending is escrow still held against their orders, available is
// completed releases minus completed payouts.
func (a *Aggregator) ComputeBalance(freelancerID string) (*domain.Balance, error) {
	bal := &domain.Balance{FreelancerID: freelancerID}

	orders, err := a.orderRepo.ListByFreelancerID(freelancerID)
	if err != nil {
		return nil, err
	}
	// The oldest order decides the balance currency, so repeated reads
	// agree regardless of listing order. Cross-currency conversion is
	// out of scope.
	var oldest *domain.Order
	for _, order := range orders {
		if oldest == nil || order.CreatedAt.Before(oldest.CreatedAt) {
			oldest = order
		}
		if order.EscrowActive() {
			bal.Pending += order.RemainingReleasable()
		}
	}
	if oldest != nil {
		bal.Currency = oldest.Currency
	}

	entries, err := a.ledgerRepo.ListByFreelancerID(freelancerID)
	if err != nil {
		return nil, err
	}
	for _, entry := range entries {
		if entry.Status != domain.TxCompleted {
			continue
		}
		switch entry.Type {
		case domain.TypeRelease:
			bal.Available += entry.Amount
		case domain.TypePayout:
			bal.Available -= entry.Amount
		}
	}

	return bal, nil
}

// PendingPayouts sums the freelancer's unsettled payout entries; the
// balance endpoint reports it next to available so callers can see
// money already spoken for by in-flight withdrawals.
func (a *Aggregator) PendingPayouts(freelancerID string) (int64, error) {
	entries, err := a.ledgerRepo.ListByFreelancerID(freelancerID)
	if err != nil {
		return 0, err
	}
	var pending int64
	for _, entry := range entries {
		if entry.Type == domain.TypePayout && entry.Status == domain.TxPending {
			pending += entry.Amount
		}
	}
	return pending, nil
}

// WithdrawableFrom folds a freelancer's ledger history into the amount
// still withdrawable: completed releases minus every payout that is
// completed or still in flight. The ledger runs it inside
// AppendPayoutEntry's critical section, where the history cannot move
// under the caller, so concurrent withdrawal requests observe each
// other and cannot jointly overdraw.
func WithdrawableFrom(history []*domain.Transaction) int64 {
	var available int64
	for _, entry := range history {
		switch {
		case entry.Type == domain.TypeRelease && entry.Status == domain.TxCompleted:
			available += entry.Amount
		case entry.Type == domain.TypePayout && entry.Status != domain.TxFailed:
			available -= entry.Amount
		}
	}
	return available
}
