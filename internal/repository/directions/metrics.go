package directions

import "github.com/prometheus/client_golang/prometheus"

var (
	requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routecore",
		Subsystem: "directions",
		Name:      "requests_total",
		Help:      "Directions API calls by outcome (ok, retriable_error, fatal_error).",
	}, []string{"outcome"})

	requestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "routecore",
		Subsystem: "directions",
		Name:      "request_duration_seconds",
		Help:      "Directions API call latency including retries.",
		Buckets:   prometheus.DefBuckets,
	})
)

func init() {
	prometheus.MustRegister(requestsTotal, requestDuration)
}
