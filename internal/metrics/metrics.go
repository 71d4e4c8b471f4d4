// Package metrics defines all Prometheus metrics for athena-dhclient.
// All metrics use the "athena_dhclient_" prefix.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "athena_dhclient"

// --- Hook Metrics ---

var (
	// HookExecutions counts hook runs by hook name and outcome (success, timeout, error).
	HookExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "hook_executions_total",
		Help:      "Total hook executions, by hook name and outcome.",
	}, []string{"hook", "outcome"})

	// HookDuration tracks per-hook execution time.
	HookDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "hook_duration_seconds",
		Help:      "Hook execution duration in seconds.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0},
	}, []string{"hook"})

	// TriggerDispatches counts hook dispatch rounds by trigger.
	TriggerDispatches = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "trigger_dispatches_total",
		Help:      "Total hook dispatch rounds, by trigger.",
	}, []string{"trigger"})
)

// --- Lease Metrics ---

var (
	// LeaseLoads counts persisted lease load attempts by outcome (hit, miss, corrupt).
	LeaseLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lease_loads_total",
		Help:      "Total persisted lease load attempts, by outcome.",
	}, []string{"outcome"})

	// LeaseDumps counts lease dump operations by storage backend.
	LeaseDumps = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "lease_dumps_total",
		Help:      "Total lease dump operations, by storage backend.",
	}, []string{"backend"})

	// LeaseExpirySeconds is the time remaining until the current lease expires.
	LeaseExpirySeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "lease_expiry_seconds",
		Help:      "Seconds until the current lease expires (negative if past due).",
	})

	// LeaseRenewalSeconds is the time remaining until the current lease should be renewed.
	LeaseRenewalSeconds = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "lease_renewal_seconds",
		Help:      "Seconds until the current lease should be renewed.",
	})
)
