// Package metrics exposes the service's Prometheus instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// DeliveriesReceived counts webhook deliveries accepted into the event
	// log, labeled by event kind.
	DeliveriesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classifier_deliveries_received_total",
		Help: "Webhook deliveries appended to the event log.",
	}, []string{"kind"})

	// DeliveriesIgnored counts deliveries that named no classifiable item.
	DeliveriesIgnored = promauto.NewCounter(prometheus.CounterOpts{
		Name: "classifier_deliveries_ignored_total",
		Help: "Webhook deliveries that did not reference an issue or pull request.",
	})

	// Classifications counts classification runs by outcome (ok, error).
	Classifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "classifier_classifications_total",
		Help: "Classification runs by outcome.",
	}, []string{"outcome"})

	// ClassifyDuration observes wall time of a full reclassification,
	// including event loading and result persistence.
	ClassifyDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "classifier_classify_duration_seconds",
		Help:    "Duration of a full reclassification.",
		Buckets: prometheus.DefBuckets,
	})
)
