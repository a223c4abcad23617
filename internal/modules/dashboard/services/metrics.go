package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chart",
		Subsystem: "dashboard",
		Name:      "cache_lookups_total",
		Help:      "Chart result cache lookups by result.",
	}, []string{"result"})

	sourceRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "chart",
		Subsystem: "dashboard",
		Name:      "source_refreshes_total",
		Help:      "Scheduled refreshes of the active data source by outcome.",
	}, []string{"outcome"})
)
