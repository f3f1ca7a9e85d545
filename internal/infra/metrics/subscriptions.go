package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		activationsTotal,
		cacheRequestsTotal,
	)
}

var (
	activationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscription_activations_total",
			Help: "Subscription activations by kind (new/renewal).",
		},
		[]string{"kind"},
	)

	cacheRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_requests_total",
			Help: "Cache lookups by entity and result (hit/miss).",
		},
		[]string{"entity", "result"},
	)
)

func IncActivation(kind string) {
	activationsTotal.WithLabelValues(norm(kind)).Inc()
}

func IncCacheRequest(entity, result string) {
	cacheRequestsTotal.WithLabelValues(norm(entity), norm(result)).Inc()
}
