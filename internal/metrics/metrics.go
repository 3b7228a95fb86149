// README: Prometheus collectors for the bid engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	TrackerCycles = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skyhail_tracker_cycles_total",
		Help: "Completed fleet reconcile cycles.",
	})

	TrackerReconcileErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skyhail_tracker_reconcile_errors_total",
		Help: "Per-unit reconcile failures, including unmapped telemetry units.",
	})

	BidsSynthesized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skyhail_bids_synthesized_total",
		Help: "Bids synthesized by the aggregator.",
	})
)
