package balance_test

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/infrastructure/inmem"
	"github.com/gigdesk/settlement-service/internal/usecase/balance"
	ledgerdto "github.com/gigdesk/settlement-service/internal/usecase/dto/ledger"
	"github.com/gigdesk/settlement-service/internal/usecase/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopPublisher struct{ mu sync.Mutex }

func (p *nopPublisher) PublishSettlement(event domain.SettlementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return nil
}

// TestBalanceReconciliation drives random sequences of payments,
// releases and refunds through the real settle path and checks the
// aggregator against an independently maintained reference fold. The
// ledger is ground truth; any divergence means drift.
func TestBalanceReconciliation(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for run := 0; run < 20; run++ {
		store := inmem.NewStore()
		uc := ledger.NewDefaultLedgerUsecase(store.Ledger(), store.Orders(), &nopPublisher{}, nil, time.Hour)
		aggregator := balance.NewAggregator(store.Orders(), store.Ledger())

		var refAvailable int64
		released := map[string]int64{}
		active := map[string]bool{}
		amounts := map[string]int64{}

		orderCount := 1 + rng.Intn(5)
		for i := 0; i < orderCount; i++ {
			orderID := fmt.Sprintf("order-%d-%d", run, i)
			total := int64(1000 * (1 + rng.Intn(20)))
			require.NoError(t, store.Orders().CreateOrder(&domain.Order{
				ID:                orderID,
				ClientID:          "client-1",
				FreelancerID:      "freelancer-1",
				ServiceAmount:     total,
				TotalAmount:       total,
				FreelancerAmount:  total,
				Currency:          "USD",
				FulfillmentStatus: domain.FulfillmentPending,
				EscrowStatus:      domain.EscrowNone,
				ExpiresAt:         time.Now().Add(time.Hour),
				CreatedAt:         time.Now(),
			}))

			confirmed := settle(t, uc, orderID, domain.TypePayment, total, rng.Intn(4) > 0)
			if !confirmed {
				continue
			}
			active[orderID] = true
			amounts[orderID] = total

			steps := rng.Intn(4)
			for s := 0; s < steps && active[orderID]; s++ {
				remaining := total - released[orderID]
				if remaining == 0 {
					break
				}
				switch rng.Intn(3) {
				case 0: // partial or full release
					amount := 1 + rng.Int63n(remaining)
					if settle(t, uc, orderID, domain.TypeRelease, amount, true) {
						released[orderID] += amount
						refAvailable += amount
						if released[orderID] == total {
							active[orderID] = false
						}
					}
				case 1: // refund of everything still held
					if settle(t, uc, orderID, domain.TypeRefund, remaining, true) {
						active[orderID] = false
					}
				case 2: // failed release, moves nothing
					settle(t, uc, orderID, domain.TypeRelease, 1+rng.Int63n(remaining), false)
				}
			}
		}

		var refPending int64
		for orderID, isActive := range active {
			if isActive {
				refPending += amounts[orderID] - released[orderID]
			}
		}

		bal, err := aggregator.ComputeBalance("freelancer-1")
		require.NoError(t, err)
		assert.Equal(t, refAvailable, bal.Available, "run %d", run)
		assert.Equal(t, refPending, bal.Pending, "run %d", run)
	}
}

var seq int

// settle records a pending entry and confirms it with the given
// outcome, returning whether the money actually moved.
func settle(t *testing.T, uc *ledger.DefaultLedgerUsecase, orderID string, entryType domain.TransactionType, amount int64, succeed bool) bool {
	t.Helper()
	seq++
	entry, err := uc.RecordPending(&ledgerdto.RecordPendingInput{
		OrderID:        orderID,
		FreelancerID:   "freelancer-1",
		Type:           entryType,
		Amount:         amount,
		Currency:       "USD",
		IdempotencyKey: fmt.Sprintf("key-%d", seq),
	})
	if err != nil {
		return false
	}
	outcome := domain.OutcomeFailed
	if succeed {
		outcome = domain.OutcomeSucceeded
	}
	settled, err := uc.Confirm(entry.ID, outcome, "")
	require.NoError(t, err)
	return succeed && settled.Status == domain.TxCompleted
}
