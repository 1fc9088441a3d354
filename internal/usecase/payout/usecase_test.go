package payout_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/infrastructure/inmem"
	"github.com/gigdesk/settlement-service/internal/usecase/balance"
	payoutdto "github.com/gigdesk/settlement-service/internal/usecase/dto/payout"
	"github.com/gigdesk/settlement-service/internal/usecase/ledger"
	"github.com/gigdesk/settlement-service/internal/usecase/payout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPublisher struct {
	mu sync.Mutex
}

func (p *stubPublisher) PublishSettlement(event domain.SettlementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return nil
}

type stubGateway struct {
	mu        sync.Mutex
	payoutErr error
	payouts   int
}

func (g *stubGateway) AuthorizeCharge(ctx context.Context, amount int64, currency, reference string) (string, error) {
	return "charge-1", nil
}

func (g *stubGateway) ConfirmCharge(ctx context.Context, gatewayRef string) error {
	return nil
}

func (g *stubGateway) IssuePayout(ctx context.Context, account string, amount int64, currency, reference string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.payoutErr != nil {
		return "", g.payoutErr
	}
	g.payouts++
	return fmt.Sprintf("payout-%d", g.payouts), nil
}

type fixture struct {
	store   *inmem.Store
	payouts *payout.DefaultPayoutUsecase
	gateway *stubGateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := inmem.NewStore()
	gw := &stubGateway{}
	ledgerUC := ledger.NewDefaultLedgerUsecase(store.Ledger(), store.Orders(), &stubPublisher{}, nil, time.Hour)
	aggregator := balance.NewAggregator(store.Orders(), store.Ledger())
	payoutUC := payout.NewDefaultPayoutUsecase(ledgerUC, aggregator, gw)
	return &fixture{store: store, payouts: payoutUC, gateway: gw}
}

// seedAvailable gives freelancer-1 a completed release of the given
// amount, which is withdrawable balance.
func (f *fixture) seedAvailable(t *testing.T, amount int64) {
	t.Helper()
	entry := &domain.Transaction{
		ID:             fmt.Sprintf("rel-%d", amount),
		FreelancerID:   "freelancer-1",
		Type:           domain.TypeRelease,
		Status:         domain.TxPending,
		Amount:         amount,
		Currency:       "USD",
		IdempotencyKey: fmt.Sprintf("rel-key-%d", amount),
		CreatedAt:      time.Now(),
	}
	require.NoError(t, f.store.Ledger().AppendEntry(entry, func(order *domain.Order) error { return nil }))
	_, err := f.store.Ledger().SettleEntry(entry.ID, func(order *domain.Order, e *domain.Transaction) error {
		e.Status = domain.TxCompleted
		return nil
	})
	require.NoError(t, err)
}

func TestRequestPayout(t *testing.T) {
	f := newFixture(t)
	f.seedAvailable(t, 6500)

	entry, err := f.payouts.RequestPayout(context.Background(), &payoutdto.RequestPayoutInput{
		FreelancerID:   "freelancer-1",
		Amount:         5000,
		IdempotencyKey: "po-1",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TxPending, entry.Status)
	assert.Empty(t, entry.OrderID)
	assert.Equal(t, "USD", entry.Currency)
	assert.Equal(t, "payout-1", entry.GatewayRef)
}

func TestRequestPayoutOverdraw(t *testing.T) {
	f := newFixture(t)
	f.seedAvailable(t, 6500)

	_, err := f.payouts.RequestPayout(context.Background(), &payoutdto.RequestPayoutInput{
		FreelancerID:   "freelancer-1",
		Amount:         7000,
		IdempotencyKey: "po-1",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)
}

func TestRequestPayoutCountsInFlight(t *testing.T) {
	f := newFixture(t)
	f.seedAvailable(t, 6500)

	_, err := f.payouts.RequestPayout(context.Background(), &payoutdto.RequestPayoutInput{
		FreelancerID:   "freelancer-1",
		Amount:         5000,
		IdempotencyKey: "po-1",
	})
	require.NoError(t, err)

	// 5000 is still pending against the 6500 available.
	_, err = f.payouts.RequestPayout(context.Background(), &payoutdto.RequestPayoutInput{
		FreelancerID:   "freelancer-1",
		Amount:         2000,
		IdempotencyKey: "po-2",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	_, err = f.payouts.RequestPayout(context.Background(), &payoutdto.RequestPayoutInput{
		FreelancerID:   "freelancer-1",
		Amount:         1500,
		IdempotencyKey: "po-3",
	})
	assert.NoError(t, err)
}

func TestRequestPayoutConcurrentBound(t *testing.T) {
	f := newFixture(t)
	f.seedAvailable(t, 5000)

	// Every request asks for the full balance under its own key; only
	// one may win, no matter how they interleave.
	const workers = 32
	var wg sync.WaitGroup
	var accepted int64
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := f.payouts.RequestPayout(context.Background(), &payoutdto.RequestPayoutInput{
				FreelancerID:   "freelancer-1",
				Amount:         5000,
				IdempotencyKey: fmt.Sprintf("po-%d", i),
			})
			if err == nil {
				atomic.AddInt64(&accepted, 1)
			} else if !errors.Is(err, domain.ErrInvalidAmount) {
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()

	assert.EqualValues(t, 1, accepted)
	assert.Equal(t, 1, f.gateway.payouts)

	entries, err := f.store.Ledger().ListByFreelancerID("freelancer-1")
	require.NoError(t, err)
	var inFlight int64
	for _, entry := range entries {
		if entry.Type == domain.TypePayout && entry.Status == domain.TxPending {
			inFlight += entry.Amount
		}
	}
	assert.EqualValues(t, 5000, inFlight)
}

func TestRequestPayoutGatewayFailure(t *testing.T) {
	f := newFixture(t)
	f.seedAvailable(t, 6500)
	f.gateway.payoutErr = errors.New("rail down")

	_, err := f.payouts.RequestPayout(context.Background(), &payoutdto.RequestPayoutInput{
		FreelancerID:   "freelancer-1",
		Amount:         5000,
		IdempotencyKey: "po-1",
	})
	require.Error(t, err)

	// The failed attempt is settled, nothing stays in flight and the
	// balance is intact.
	f.gateway.payoutErr = nil
	entry, err := f.payouts.RequestPayout(context.Background(), &payoutdto.RequestPayoutInput{
		FreelancerID:   "freelancer-1",
		Amount:         5000,
		IdempotencyKey: "po-2",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TxPending, entry.Status)
}

func TestRequestPayoutIdempotent(t *testing.T) {
	f := newFixture(t)
	f.seedAvailable(t, 6500)

	first, err := f.payouts.RequestPayout(context.Background(), &payoutdto.RequestPayoutInput{
		FreelancerID:   "freelancer-1",
		Amount:         5000,
		IdempotencyKey: "po-1",
	})
	require.NoError(t, err)

	second, err := f.payouts.RequestPayout(context.Background(), &payoutdto.RequestPayoutInput{
		FreelancerID:   "freelancer-1",
		Amount:         5000,
		IdempotencyKey: "po-1",
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.gateway.payouts)
}
