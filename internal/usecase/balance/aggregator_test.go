package balance_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/infrastructure/inmem"
	"github.com/gigdesk/settlement-service/internal/usecase/balance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedOrder(t *testing.T, store *inmem.Store, id string, escrow domain.EscrowStatus, freelancerAmount, released int64) {
	t.Helper()
	fulfillment := domain.FulfillmentAccepted
	switch escrow {
	case domain.EscrowReleased:
		fulfillment = domain.FulfillmentCompleted
	case domain.EscrowRefunded:
		fulfillment = domain.FulfillmentCancelled
	}
	require.NoError(t, store.Orders().CreateOrder(&domain.Order{
		ID:                id,
		ClientID:          "client-1",
		FreelancerID:      "freelancer-1",
		ServiceAmount:     freelancerAmount,
		TotalAmount:       freelancerAmount,
		FreelancerAmount:  freelancerAmount,
		Currency:          "USD",
		ReleasedAmount:    released,
		FulfillmentStatus: fulfillment,
		EscrowStatus:      escrow,
		ExpiresAt:         time.Now().Add(time.Hour),
		CreatedAt:         time.Now(),
	}))
}

func seedEntry(t *testing.T, store *inmem.Store, entryType domain.TransactionType, status domain.TransactionStatus, amount int64) {
	t.Helper()
	entry := &domain.Transaction{
		ID:             fmt.Sprintf("entry-%d-%s-%s", amount, entryType, status),
		FreelancerID:   "freelancer-1",
		Type:           entryType,
		Status:         domain.TxPending,
		Amount:         amount,
		Currency:       "USD",
		IdempotencyKey: fmt.Sprintf("key-%d-%s-%s", amount, entryType, status),
		CreatedAt:      time.Now(),
	}
	require.NoError(t, store.Ledger().AppendEntry(entry, func(order *domain.Order) error { return nil }))
	if status != domain.TxPending {
		_, err := store.Ledger().SettleEntry(entry.ID, func(order *domain.Order, e *domain.Transaction) error {
			e.Status = status
			return nil
		})
		require.NoError(t, err)
	}
}

func TestComputeBalance(t *testing.T) {
	store := inmem.NewStore()
	aggregator := balance.NewAggregator(store.Orders(), store.Ledger())

	// Two active escrows, one fully released, one refunded.
	seedOrder(t, store, "o1", domain.EscrowHeld, 10000, 0)
	seedOrder(t, store, "o2", domain.EscrowPartiallyReleased, 8000, 3000)
	seedOrder(t, store, "o3", domain.EscrowReleased, 5000, 5000)
	seedOrder(t, store, "o4", domain.EscrowRefunded, 2000, 0)

	// Completed releases from o2 and o3, one completed payout, plus
	// pending and failed noise that must not count.
	seedEntry(t, store, domain.TypeRelease, domain.TxCompleted, 3000)
	seedEntry(t, store, domain.TypeRelease, domain.TxCompleted, 5000)
	seedEntry(t, store, domain.TypePayout, domain.TxCompleted, 1500)
	seedEntry(t, store, domain.TypePayout, domain.TxPending, 700)
	seedEntry(t, store, domain.TypeRelease, domain.TxFailed, 9999)

	bal, err := aggregator.ComputeBalance("freelancer-1")
	require.NoError(t, err)

	// Pending: 10000 held on o1 + 5000 still releasable on o2.
	assert.EqualValues(t, 15000, bal.Pending)
	// Available: 3000 + 5000 released, minus the 1500 payout.
	assert.EqualValues(t, 6500, bal.Available)
	assert.Equal(t, "USD", bal.Currency)
}

func TestComputeBalanceEmpty(t *testing.T) {
	store := inmem.NewStore()
	aggregator := balance.NewAggregator(store.Orders(), store.Ledger())

	bal, err := aggregator.ComputeBalance("nobody")
	require.NoError(t, err)
	assert.Zero(t, bal.Available)
	assert.Zero(t, bal.Pending)
}

func TestComputeBalanceCurrencyFromOldestOrder(t *testing.T) {
	store := inmem.NewStore()
	aggregator := balance.NewAggregator(store.Orders(), store.Ledger())

	now := time.Now()
	for _, order := range []struct {
		id       string
		currency string
		created  time.Time
	}{
		{"o-eur", "EUR", now},
		{"o-usd", "USD", now.Add(-time.Hour)},
	} {
		require.NoError(t, store.Orders().CreateOrder(&domain.Order{
			ID:                order.id,
			ClientID:          "client-1",
			FreelancerID:      "freelancer-1",
			ServiceAmount:     1000,
			TotalAmount:       1000,
			FreelancerAmount:  1000,
			Currency:          order.currency,
			FulfillmentStatus: domain.FulfillmentAccepted,
			EscrowStatus:      domain.EscrowHeld,
			ExpiresAt:         now.Add(time.Hour),
			CreatedAt:         order.created,
		}))
	}

	// The oldest order wins regardless of listing order.
	for i := 0; i < 10; i++ {
		bal, err := aggregator.ComputeBalance("freelancer-1")
		require.NoError(t, err)
		assert.Equal(t, "USD", bal.Currency)
	}
}

func TestWithdrawableFrom(t *testing.T) {
	history := []*domain.Transaction{
		{Type: domain.TypeRelease, Status: domain.TxCompleted, Amount: 5000},
		{Type: domain.TypeRelease, Status: domain.TxPending, Amount: 9999},
		{Type: domain.TypePayout, Status: domain.TxCompleted, Amount: 1500},
		{Type: domain.TypePayout, Status: domain.TxPending, Amount: 700},
		{Type: domain.TypePayout, Status: domain.TxFailed, Amount: 9999},
	}

	// 5000 released minus 1500 paid out minus 700 in flight.
	assert.EqualValues(t, 2800, balance.WithdrawableFrom(history))
}

func TestPendingPayouts(t *testing.T) {
	store := inmem.NewStore()
	aggregator := balance.NewAggregator(store.Orders(), store.Ledger())

	seedEntry(t, store, domain.TypePayout, domain.TxPending, 700)
	seedEntry(t, store, domain.TypePayout, domain.TxPending, 300)
	seedEntry(t, store, domain.TypePayout, domain.TxCompleted, 9999)

	pending, err := aggregator.PendingPayouts("freelancer-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1000, pending)
}
