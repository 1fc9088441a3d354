package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gigdesk/settlement-service/internal/domain"
	ledgerdto "github.com/gigdesk/settlement-service/internal/usecase/dto/ledger"
	orderdto "github.com/gigdesk/settlement-service/internal/usecase/dto/order"
	ledgerusecase "github.com/gigdesk/settlement-service/internal/usecase/ledger"
	orderusecase "github.com/gigdesk/settlement-service/internal/usecase/order"
	"github.com/go-chi/chi/v5"
)

type OrderHandler struct {
	orderUsecase  orderusecase.OrderUsecase
	ledgerUsecase ledgerusecase.LedgerUsecase
	fees          domain.FeeSchedule
	paymentWindow time.Duration
}

func NewOrderHandler(
	orderUsecase orderusecase.OrderUsecase,
	ledgerUsecase ledgerusecase.LedgerUsecase,
	fees domain.FeeSchedule,
	paymentWindow time.Duration,
) *OrderHandler {
	return &OrderHandler{
		orderUsecase:  orderUsecase,
		ledgerUsecase: ledgerUsecase,
		fees:          fees,
		paymentWindow: paymentWindow,
	}
}

type createOrderRequest struct {
	FreelancerID  string `json:"freelancer_id"`
	ServiceAmount int64  `json:"service_amount"`
	Currency      string `json:"currency"`
}

func (h *OrderHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	clientID := actorID(r)
	if clientID == "" {
		writeError(w, fmt.Errorf("%w: missing actor", domain.ErrUnauthorized))
		return
	}

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	output, err := h.orderUsecase.CreateOrder(&orderdto.CreateOrderInput{
		ClientID:      clientID,
		FreelancerID:  req.FreelancerID,
		ServiceAmount: req.ServiceAmount,
		Currency:      req.Currency,
		Fees:          h.fees,
		TTL:           h.paymentWindow,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, output)
}

func (h *OrderHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orderUsecase.GetOrderByID(chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orderdto.ToOrderOutput(order))
}

func (h *OrderHandler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	entries, err := h.ledgerUsecase.ListForOrder(chi.URLParam(r, "orderID"))
	if err != nil {
		writeError(w, err)
		return
	}

	outputs := make([]*ledgerdto.EntryOutput, 0, len(entries))
	for _, entry := range entries {
		outputs = append(outputs, ledgerdto.ToEntryOutput(entry))
	}
	writeJSON(w, http.StatusOK, outputs)
}

type payOrderRequest struct {
	IdempotencyKey string `json:"idempotency_key"`
}

func (h *OrderHandler) PayOrder(w http.ResponseWriter, r *http.Request) {
	var req payOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	entry, err := h.orderUsecase.Pay(r.Context(), &orderdto.PayOrderInput{
		OrderID:        chi.URLParam(r, "orderID"),
		ActorID:        actorID(r),
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ledgerdto.ToEntryOutput(entry))
}

type releaseRequest struct {
	Amount         int64  `json:"amount"`
	Reason         string `json:"reason"`
	IdempotencyKey string `json:"idempotency_key"`
}

func (h *OrderHandler) ReleaseEscrow(w http.ResponseWriter, r *http.Request) {
	var req releaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	entry, err := h.orderUsecase.ReleaseEscrow(&orderdto.ReleaseEscrowInput{
		OrderID:        chi.URLParam(r, "orderID"),
		ActorID:        actorID(r),
		Amount:         req.Amount,
		Reason:         req.Reason,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ledgerdto.ToEntryOutput(entry))
}
