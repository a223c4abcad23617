package workerhost

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	messagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chart",
		Subsystem: "host",
		Name:      "messages_total",
		Help:      "Messages received by worker hosts, by type.",
	}, []string{"type"})

	computeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "chart",
		Subsystem: "host",
		Name:      "compute_duration_seconds",
		Help:      "Time spent answering compute requests, by reply type.",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
	}, []string{"reply"})

	cachedRows = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "chart",
		Subsystem: "host",
		Name:      "cached_rows",
		Help:      "Rows in the most recently pushed source.",
	})

	activeHosts = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "chart",
		Subsystem: "host",
		Name:      "active",
		Help:      "Worker hosts currently running.",
	})
)
