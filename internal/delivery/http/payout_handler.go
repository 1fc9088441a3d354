package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gigdesk/settlement-service/internal/domain"
	ledgerdto "github.com/gigdesk/settlement-service/internal/usecase/dto/ledger"
	payoutdto "github.com/gigdesk/settlement-service/internal/usecase/dto/payout"
	payoutusecase "github.com/gigdesk/settlement-service/internal/usecase/payout"
)

type PayoutHandler struct {
	payoutUsecase payoutusecase.PayoutUsecase
}

func NewPayoutHandler(payoutUsecase payoutusecase.PayoutUsecase) *PayoutHandler {
	return &PayoutHandler{payoutUsecase: payoutUsecase}
}

type requestPayoutRequest struct {
	Amount         int64  `json:"amount"`
	Currency       string `json:"currency"`
	IdempotencyKey string `json:"idempotency_key"`
}

func (h *PayoutHandler) RequestPayout(w http.ResponseWriter, r *http.Request) {
	freelancerID := actorID(r)
	if freelancerID == "" {
		writeError(w, fmt.Errorf("%w: missing actor", domain.ErrUnauthorized))
		return
	}

	var req requestPayoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	entry, err := h.payoutUsecase.RequestPayout(r.Context(), &payoutdto.RequestPayoutInput{
		FreelancerID:   freelancerID,
		Amount:         req.Amount,
		Currency:       req.Currency,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusAccepted, ledgerdto.ToEntryOutput(entry))
}
