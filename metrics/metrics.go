package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"net/http"
)

var (
	DistanceRows = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geonotes",
		Subsystem: "greatcircle",
		Name:      "rows_total",
		Help:      "Coordinate pairs run through the distance transform",
	}, []string{"method"})

	ScrapeRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geonotes",
		Subsystem: "scrape",
		Name:      "requests_total",
		Help:      "Page fetches by outcome",
	}, []string{"outcome"})

	OverpassQueryDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geonotes",
		Subsystem: "overpass",
		Name:      "query_duration_seconds",
		Help:      "Duration of Overpass queries including retries",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})

	CoercedValues = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geonotes",
		Subsystem: "attempt",
		Name:      "coerced_total",
		Help:      "Failed operations replaced by a coerced value",
	}, []string{"op"})

	MapRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geonotes",
		Subsystem: "mapview",
		Name:      "requests_total",
		Help:      "Map server requests",
	}, []string{"path", "status"})
)

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
