package pathfinding

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// searchTotal counts resolved searches by result
	searchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "voxnav_path_search_total",
		Help: "Total path searches by result",
	}, []string{"result"}) // found, partial, invalid, terminated

	searchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voxnav_path_search_duration_seconds",
		Help:    "Path search duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14), // 0.1ms to ~800ms
	})

	searchClosedNodes = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "voxnav_path_search_closed_nodes",
		Help:    "Closed-set size when a search resolves",
		Buckets: []float64{8, 16, 32, 64, 128, 250, 500, 1000, 2000},
	})

	searchesInFlight = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "voxnav_path_searches_in_flight",
		Help: "Path searches currently executing",
	})
)
