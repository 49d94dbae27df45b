package reconciler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ticksTotal counts reconciliation passes by outcome.
	ticksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reconciler_ticks_total",
		Help: "Total number of reconciliation passes by outcome",
	}, []string{"outcome"}) // outcome: ok, error

	// tickDuration tracks how long a full reconciliation pass takes.
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "reconciler_tick_duration_seconds",
		Help:    "Time taken for a full reconciliation pass",
		Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})

	// campaignsExpired counts campaigns the reconciler deactivated.
	campaignsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconciler_campaigns_expired_total",
		Help: "Total number of campaigns expired by the reconciler",
	})

	// campaignsApplied counts overlay apply runs triggered by the reconciler.
	campaignsApplied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconciler_campaigns_applied_total",
		Help: "Total number of campaign overlay applications by the reconciler",
	})

	// itemsCorrected counts products whose materialized prices the sweep fixed.
	itemsCorrected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "reconciler_prices_corrected_total",
		Help: "Total number of products with drifted prices corrected by the sweep",
	})

	// campaignErrors counts per-campaign reconciliation failures.
	campaignErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "reconciler_campaign_errors_total",
		Help: "Total number of per-campaign reconciliation failures by action",
	}, []string{"action"}) // action: expire, apply, sweep
)
