package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// SettlementMetrics covers the money paths: ledger writes, settles,
// sweeps and dispute outcomes. A nil *SettlementMetrics is a valid
// no-op receiver so usecases can run without a registry in tests.
type SettlementMetrics struct {
	OrdersCreatedTotal       prometheus.CounterVec
	OrdersCreatedAmountTotal prometheus.CounterVec
	OrdersExpiredTotal       prometheus.Counter

	EntriesRecordedTotal prometheus.CounterVec
	EntriesSettledTotal  prometheus.CounterVec
	SettledAmountTotal   prometheus.CounterVec
	EntriesSweptTotal    prometheus.CounterVec
	SettleErrorsTotal    prometheus.Counter
	SettleDuration       prometheus.Histogram

	DisputesOpenedTotal   prometheus.Counter
	DisputesResolvedTotal prometheus.CounterVec
}

func NewSettlementMetrics() *SettlementMetrics {
	return &SettlementMetrics{
		OrdersCreatedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_orders_created_total",
				Help: "Orders created",
			},
			[]string{"currency"},
		),
		OrdersCreatedAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_orders_created_amount_total",
				Help: "Total amount of created orders in minor units",
			},
			[]string{"currency"},
		),
		OrdersExpiredTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "settlement_orders_expired_total",
				Help: "Unpaid orders cancelled by the expiry task",
			},
		),
		EntriesRecordedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_entries_recorded_total",
				Help: "Pending ledger entries recorded",
			},
			[]string{"type"},
		),
		EntriesSettledTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_entries_settled_total",
				Help: "Ledger entries settled",
			},
			[]string{"type", "outcome"},
		),
		SettledAmountTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_settled_amount_total",
				Help: "Settled amounts in minor units",
			},
			[]string{"type"},
		),
		EntriesSweptTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_entries_swept_total",
				Help: "Stale pending entries failed by the sweeper",
			},
			[]string{"type"},
		),
		SettleErrorsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "settlement_settle_errors_total",
				Help: "Settle transactions aborted with an error",
			},
		),
		SettleDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "settlement_settle_duration_seconds",
				Help:    "Time spent settling a ledger entry",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),
		DisputesOpenedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "settlement_disputes_opened_total",
				Help: "Refund disputes opened",
			},
		),
		DisputesResolvedTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_disputes_resolved_total",
				Help: "Refund disputes resolved",
			},
			[]string{"decision"},
		),
	}
}

func (m *SettlementMetrics) RecordOrderCreated(currency string, totalAmount int64) {
	if m == nil {
		return
	}
	m.OrdersCreatedTotal.WithLabelValues(currency).Inc()
	m.OrdersCreatedAmountTotal.WithLabelValues(currency).Add(float64(totalAmount))
}

func (m *SettlementMetrics) RecordOrderExpired() {
	if m == nil {
		return
	}
	m.OrdersExpiredTotal.Inc()
}

func (m *SettlementMetrics) RecordEntryRecorded(entryType string) {
	if m == nil {
		return
	}
	m.EntriesRecordedTotal.WithLabelValues(entryType).Inc()
}

func (m *SettlementMetrics) RecordEntrySettled(entryType, outcome string, amount int64) {
	if m == nil {
		return
	}
	m.EntriesSettledTotal.WithLabelValues(entryType, outcome).Inc()
	m.SettledAmountTotal.WithLabelValues(entryType).Add(float64(amount))
}

func (m *SettlementMetrics) RecordEntrySwept(entryType string) {
	if m == nil {
		return
	}
	m.EntriesSweptTotal.WithLabelValues(entryType).Inc()
}

func (m *SettlementMetrics) RecordSettleError() {
	if m == nil {
		return
	}
	m.SettleErrorsTotal.Inc()
}

func (m *SettlementMetrics) RecordSettleDuration(seconds float64) {
	if m == nil {
		return
	}
	m.SettleDuration.Observe(seconds)
}

func (m *SettlementMetrics) RecordDisputeOpened() {
	if m == nil {
		return
	}
	m.DisputesOpenedTotal.Inc()
}

func (m *SettlementMetrics) RecordDisputeResolved(decision string) {
	if m == nil {
		return
	}
	m.DisputesResolvedTotal.WithLabelValues(decision).Inc()
}
