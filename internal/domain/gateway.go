package domain

import "context"

// PaymentGateway is the external funds-movement rail. Every call maps
// to a pending ledger entry created beforehand; the gateway's
// asynchronous confirmation (webhook or polling) settles it. Calls
// never happen while an order row lock is held.
type PaymentGateway interface {
	AuthorizeCharge(ctx context.Context, amount int64, currency, reference string) (gatewayRef string, err error)
	ConfirmCharge(ctx context.Context, gatewayRef string) error
	IssuePayout(ctx context.Context, freelancerAccount string, amount int64, currency, reference string) (payoutRef string, err error)
}
