package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Orders   *OrderHandler
	Disputes *DisputeHandler
	Payouts  *PayoutHandler
	Balances *BalanceHandler
	Webhooks *WebhookHandler
}

func NewRouter(h Handlers) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	// Webhooks authenticate with a gateway signature at the edge, not
	// with actor headers.
	r.Post("/webhooks/gateway", h.Webhooks.HandleGatewayEvent)

	r.Group(func(r chi.Router) {
		r.Use(ActorContext)

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", h.Orders.CreateOrder)
			r.Get("/{orderID}", h.Orders.GetOrder)
			r.Get("/{orderID}/transactions", h.Orders.ListTransactions)
			r.Post("/{orderID}/payments", h.Orders.PayOrder)
			r.Post("/{orderID}/releases", h.Orders.ReleaseEscrow)
			r.Post("/{orderID}/refunds", h.Disputes.RequestRefund)
		})

		r.Post("/refunds/{entryID}/resolution", h.Disputes.ResolveRefund)
		r.Post("/payouts", h.Payouts.RequestPayout)
		r.Get("/freelancers/{freelancerID}/balance", h.Balances.GetBalance)
	})

	return r
}
