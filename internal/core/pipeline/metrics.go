package pipeline

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Request outcomes
const (
	outcomeSuccess    = "success"
	outcomeSuperseded = "superseded"
	outcomeHostError  = "host_error"
	outcomeTerminated = "terminated"
)

var (
	currentGeneration = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "chart",
		Subsystem: "pipeline",
		Name:      "generation",
		Help:      "Generation of the most recently pushed source.",
	})

	sourcePushes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chart",
		Subsystem: "pipeline",
		Name:      "source_pushes_total",
		Help:      "setSource pushes to the worker host, by result.",
	}, []string{"result"})

	pendingRequests = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "chart",
		Subsystem: "pipeline",
		Name:      "pending_requests",
		Help:      "Compute requests awaiting a reply.",
	})

	settledRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chart",
		Subsystem: "pipeline",
		Name:      "requests_total",
		Help:      "Settled compute requests, by outcome.",
	}, []string{"outcome"})

	unroutableReplies = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "chart",
		Subsystem: "pipeline",
		Name:      "unroutable_replies_total",
		Help:      "Replies dropped because no pending request matched.",
	})
)
