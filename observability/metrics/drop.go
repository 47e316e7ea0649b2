package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// DropMetrics instruments the issuance engine's externally visible activity.
type DropMetrics struct {
	mints      *prometheus.CounterVec
	mintFailed *prometheus.CounterVec
	supply     prometheus.Gauge
	reserve    prometheus.Gauge
	fundsPaid  prometheus.Counter
	adminCalls *prometheus.CounterVec
}

var (
	dropOnce     sync.Once
	dropRegistry *DropMetrics
)

// Drop returns the process-wide issuance metrics, registering them on first
// use.
func Drop() *DropMetrics {
	dropOnce.Do(func() {
		dropRegistry = &DropMetrics{
			mints: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "drop_mints_total",
				Help: "Count of successfully issued token identities by phase.",
			}, []string{"phase"}),
			mintFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "drop_mint_failures_total",
				Help: "Count of rejected mint requests by phase.",
			}, []string{"phase"}),
			supply: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "drop_total_issued",
				Help: "Current issued token identity count.",
			}),
			reserve: prometheus.NewGauge(prometheus.GaugeOpts{
				Name: "drop_reserve_remaining",
				Help: "Remaining reserve pool.",
			}),
			fundsPaid: prometheus.NewCounter(prometheus.CounterOpts{
				Name: "drop_funds_collected_total",
				Help: "Number of successful custody payouts.",
			}),
			adminCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
				Name: "drop_admin_calls_total",
				Help: "Count of admin operations by route.",
			}, []string{"route"}),
		}
		prometheus.MustRegister(
			dropRegistry.mints,
			dropRegistry.mintFailed,
			dropRegistry.supply,
			dropRegistry.reserve,
			dropRegistry.fundsPaid,
			dropRegistry.adminCalls,
		)
	})
	return dropRegistry
}

// ObserveMint records amount issued identities for the given phase.
func (m *DropMetrics) ObserveMint(phase string, amount uint64) {
	if m == nil {
		return
	}
	m.mints.WithLabelValues(phase).Add(float64(amount))
}

// ObserveMintFailure records a rejected mint request for the given phase.
func (m *DropMetrics) ObserveMintFailure(phase string) {
	if m == nil {
		return
	}
	m.mintFailed.WithLabelValues(phase).Inc()
}

// SetSupply updates the issued-count gauge.
func (m *DropMetrics) SetSupply(total uint64) {
	if m == nil {
		return
	}
	m.supply.Set(float64(total))
}

// SetReserve updates the remaining-reserve gauge.
func (m *DropMetrics) SetReserve(remaining uint64) {
	if m == nil {
		return
	}
	m.reserve.Set(float64(remaining))
}

// ObserveFundsCollected records a successful custody payout.
func (m *DropMetrics) ObserveFundsCollected() {
	if m == nil {
		return
	}
	m.fundsPaid.Inc()
}

// ObserveAdminCall records an admin operation.
func (m *DropMetrics) ObserveAdminCall(route string) {
	if m == nil {
		return
	}
	m.adminCalls.WithLabelValues(route).Inc()
}
