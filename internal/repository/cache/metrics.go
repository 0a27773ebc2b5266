package cache

import "github.com/prometheus/client_golang/prometheus"

var (
	hitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "routecore",
		Subsystem: "route_cache",
		Name:      "hits_total",
		Help:      "Route cache hits, partitioned by the tier that served them.",
	}, []string{"tier"})

	missesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "routecore",
		Subsystem: "route_cache",
		Name:      "misses_total",
		Help:      "Route cache misses across all tiers.",
	})

	degradedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "routecore",
		Subsystem: "route_cache",
		Name:      "redis_degraded_total",
		Help:      "Requests served by the in-process LRU because Redis was unavailable.",
	})
)

func init() {
	prometheus.MustRegister(hitsTotal, missesTotal, degradedTotal)
}
