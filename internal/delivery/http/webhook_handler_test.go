package http_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
	"github.com/gigdesk/settlement-service/internal/infrastructure/inmem"
	ledgerdto "github.com/gigdesk/settlement-service/internal/usecase/dto/ledger"
	"github.com/gigdesk/settlement-service/internal/usecase/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpdelivery "github.com/gigdesk/settlement-service/internal/delivery/http"
)

type stubPublisher struct {
	mu sync.Mutex
}

func (p *stubPublisher) PublishSettlement(event domain.SettlementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return nil
}

func seedPendingPayment(t *testing.T, store *inmem.Store, uc *ledger.DefaultLedgerUsecase) *domain.Transaction {
	t.Helper()
	require.NoError(t, store.Orders().CreateOrder(&domain.Order{
		ID:                "order-1",
		ClientID:          "client-1",
		FreelancerID:      "freelancer-1",
		ServiceAmount:     10000,
		TotalAmount:       11330,
		FreelancerAmount:  10000,
		Currency:          "USD",
		FulfillmentStatus: domain.FulfillmentPending,
		EscrowStatus:      domain.EscrowNone,
		ExpiresAt:         time.Now().Add(time.Hour),
		CreatedAt:         time.Now(),
	}))
	entry, err := uc.RecordPending(&ledgerdto.RecordPendingInput{
		OrderID:        "order-1",
		Type:           domain.TypePayment,
		Amount:         11330,
		Currency:       "USD",
		IdempotencyKey: "pay-ref-1",
	})
	require.NoError(t, err)
	return entry
}

func TestGatewayWebhook(t *testing.T) {
	store := inmem.NewStore()
	uc := ledger.NewDefaultLedgerUsecase(store.Ledger(), store.Orders(), &stubPublisher{}, nil, time.Hour)
	handler := httpdelivery.NewWebhookHandler(uc)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /webhooks/gateway", handler.HandleGatewayEvent)

	seedPendingPayment(t, store, uc)

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/gateway", strings.NewReader(body))
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec
	}

	t.Run("succeeded confirmation holds escrow", func(t *testing.T) {
		rec := post(`{"reference":"pay-ref-1","gateway_ref":"ch_123","status":"succeeded"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		order, err := store.Orders().GetOrderByID("order-1")
		require.NoError(t, err)
		assert.Equal(t, domain.EscrowHeld, order.EscrowStatus)
	})

	t.Run("replayed webhook is accepted and changes nothing", func(t *testing.T) {
		rec := post(`{"reference":"pay-ref-1","gateway_ref":"ch_123","status":"failed"}`)
		assert.Equal(t, http.StatusOK, rec.Code)

		order, err := store.Orders().GetOrderByID("order-1")
		require.NoError(t, err)
		assert.Equal(t, domain.EscrowHeld, order.EscrowStatus)
	})

	t.Run("unknown reference", func(t *testing.T) {
		rec := post(`{"reference":"no-such-ref","status":"succeeded"}`)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		rec := post(`{"reference":"pay-ref-1","status":"maybe"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing reference", func(t *testing.T) {
		rec := post(`{"status":"succeeded"}`)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
