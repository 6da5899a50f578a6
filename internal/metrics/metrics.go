// Package metrics defines the Prometheus instruments for the ledger engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EntriesInserted counts ledger entries appended, by entry type.
	EntriesInserted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_entries_inserted_total",
		Help: "Number of ledger entries appended, labeled by entry type.",
	}, []string{"type"})

	// SettlementsGenerated counts settlement generations.
	SettlementsGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_settlements_generated_total",
		Help: "Number of settlements generated.",
	})

	// ItemPaidToggles counts mark-paid and unmark-paid operations.
	ItemPaidToggles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_settlement_item_toggles_total",
		Help: "Number of settlement item paid-state changes, labeled by action.",
	}, []string{"action"})

	// UnbalancedLedgerWarnings counts settlement generations whose input
	// balances did not net to zero.
	UnbalancedLedgerWarnings = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ledger_unbalanced_generation_total",
		Help: "Number of settlement generations over a ledger that did not net to zero.",
	})

	// RequestDuration observes HTTP request latency by method and route.
	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route"})
)
