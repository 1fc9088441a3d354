package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// HTTPPaymentGateway talks to the external payment provider over its
// JSON API. Calls carry the ledger entry's idempotency key as the
// provider-side reference, so a retried call lands on the same charge.
type HTTPPaymentGateway struct {
	Address string
	client  *http.Client
}

func NewHTTPPaymentGateway(address string, timeout time.Duration) *HTTPPaymentGateway {
	return &HTTPPaymentGateway{
		Address: address,
		client:  &http.Client{Timeout: timeout},
	}
}

type chargeRequest struct {
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

type payoutRequest struct {
	Account   string `json:"account"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
	Reference string `json:"reference"`
}

type refResponse struct {
	Ref string `json:"ref"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (g *HTTPPaymentGateway) AuthorizeCharge(ctx context.Context, amount int64, currency, reference string) (string, error) {
	return g.postForRef(ctx, "/charges", chargeRequest{
		Amount:    amount,
		Currency:  currency,
		Reference: reference,
	})
}

func (g *HTTPPaymentGateway) ConfirmCharge(ctx context.Context, gatewayRef string) error {
	_, err := g.postForRef(ctx, fmt.Sprintf("/charges/%s/capture", gatewayRef), struct{}{})
	return err
}

func (g *HTTPPaymentGateway) IssuePayout(ctx context.Context, freelancerAccount string, amount int64, currency, reference string) (string, error) {
	return g.postForRef(ctx, "/payouts", payoutRequest{
		Account:   freelancerAccount,
		Amount:    amount,
		Currency:  currency,
		Reference: reference,
	})
}

func (g *HTTPPaymentGateway) postForRef(ctx context.Context, path string, body any) (string, error) {
	requestBodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, g.Address+path, bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return "", err
	}
	request.Header.Set("Content-Type", "application/json")

	response, err := g.client.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()
	responseBodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}

	if response.StatusCode >= 200 && response.StatusCode < 300 {
		var ref refResponse
		if err := json.Unmarshal(responseBodyBytes, &ref); err != nil {
			return "", err
		}
		return ref.Ref, nil
	}

	var errResp errorResponse
	if err := json.Unmarshal(responseBodyBytes, &errResp); err != nil {
		return "", fmt.Errorf("gateway returned status %d", response.StatusCode)
	}
	return "", errors.New(errResp.Error)
}
