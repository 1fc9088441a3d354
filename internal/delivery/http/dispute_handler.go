package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gigdesk/settlement-service/internal/domain"
	disputeusecase "github.com/gigdesk/settlement-service/internal/usecase/dispute"
	disputedto "github.com/gigdesk/settlement-service/internal/usecase/dto/dispute"
	ledgerdto "github.com/gigdesk/settlement-service/internal/usecase/dto/ledger"
	"github.com/go-chi/chi/v5"
)

type DisputeHandler struct {
	disputeUsecase disputeusecase.DisputeUsecase
}

func NewDisputeHandler(disputeUsecase disputeusecase.DisputeUsecase) *DisputeHandler {
	return &DisputeHandler{disputeUsecase: disputeUsecase}
}

type requestRefundRequest struct {
	Amount         int64  `json:"amount"`
	Reason         string `json:"reason"`
	IdempotencyKey string `json:"idempotency_key"`
}

func (h *DisputeHandler) RequestRefund(w http.ResponseWriter, r *http.Request) {
	var req requestRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	entry, err := h.disputeUsecase.RequestRefund(&disputedto.RequestRefundInput{
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
	writeJSON(w, http.StatusAccepted, ledgerdto.ToEntryOutput(entry))
}

type resolveRefundRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

// ResolveRefund is the admin adjudication endpoint. Only callers the
// edge proxy has tagged as admins get through.
func (h *DisputeHandler) ResolveRefund(w http.ResponseWriter, r *http.Request) {
	if actorRole(r) != RoleAdmin {
		writeError(w, fmt.Errorf("%w: admin role required", domain.ErrUnauthorized))
		return
	}

	var req resolveRefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	entry, err := h.disputeUsecase.ResolveRefund(&disputedto.ResolveRefundInput{
		EntryID:  chi.URLParam(r, "entryID"),
		ActorID:  actorID(r),
		Decision: req.Decision,
		Notes:    req.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ledgerdto.ToEntryOutput(entry))
}
