package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gigdesk/settlement-service/internal/domain"
	ledgerdto "github.com/gigdesk/settlement-service/internal/usecase/dto/ledger"
	ledgerusecase "github.com/gigdesk/settlement-service/internal/usecase/ledger"
)

// WebhookHandler receives the gateway's asynchronous confirmations.
// The gateway echoes back the reference we charged with, which is the
// ledger entry's idempotency key, so a replayed webhook settles
// nothing twice.
type WebhookHandler struct {
	ledgerUsecase ledgerusecase.LedgerUsecase
}

func NewWebhookHandler(ledgerUsecase ledgerusecase.LedgerUsecase) *WebhookHandler {
	return &WebhookHandler{ledgerUsecase: ledgerUsecase}
}

type gatewayWebhookRequest struct {
	Reference  string `json:"reference"`
	GatewayRef string `json:"gateway_ref"`
	Status     string `json:"status"` // "succeeded" | "failed"
	Reason     string `json:"reason"`
}

func (h *WebhookHandler) HandleGatewayEvent(w http.ResponseWriter, r *http.Request) {
	var req gatewayWebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if req.Reference == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "reference is required"})
		return
	}

	var outcome domain.Outcome
	switch req.Status {
	case "succeeded":
		outcome = domain.OutcomeSucceeded
	case "failed":
		outcome = domain.OutcomeFailed
	default:
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("unknown status %q", req.Status)})
		return
	}

	note := ""
	if req.Reason != "" {
		note = fmt.Sprintf("gateway: %s", req.Reason)
	}

	entry, err := h.ledgerUsecase.ConfirmByIdempotencyKey(req.Reference, outcome, note)
	if err != nil {
		writeError(w, err)
		return
	}

	if req.GatewayRef != "" && entry.GatewayRef == "" {
		if err := h.ledgerUsecase.SetGatewayRef(entry.ID, req.GatewayRef); err == nil {
			entry.GatewayRef = req.GatewayRef
		}
	}

	writeJSON(w, http.StatusOK, ledgerdto.ToEntryOutput(entry))
}
