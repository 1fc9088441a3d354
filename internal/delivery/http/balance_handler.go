package http

import (
	"net/http"

	"github.com/gigdesk/settlement-service/internal/usecase/balance"
	"github.com/go-chi/chi/v5"
)

type BalanceHandler struct {
	balanceUsecase balance.BalanceUsecase
}

func NewBalanceHandler(balanceUsecase balance.BalanceUsecase) *BalanceHandler {
	return &BalanceHandler{balanceUsecase: balanceUsecase}
}

type balanceResponse struct {
	FreelancerID    string `json:"freelancer_id"`
	Available       int64  `json:"available"`
	Pending         int64  `json:"pending"`
	InFlightPayouts int64  `json:"in_flight_payouts"`
	Currency        string `json:"currency"`
}

func (h *BalanceHandler) GetBalance(w http.ResponseWriter, r *http.Request) {
	freelancerID := chi.URLParam(r, "freelancerID")
	bal, err := h.balanceUsecase.ComputeBalance(freelancerID)
	if err != nil {
		writeError(w, err)
		return
	}
	inFlight, err := h.balanceUsecase.PendingPayouts(freelancerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceResponse{
		FreelancerID:    bal.FreelancerID,
		Available:       bal.Available,
		Pending:         bal.Pending,
		InFlightPayouts: inFlight,
		Currency:        bal.Currency,
	})
}
