package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		sweepCheckedTotal,
		sweepEmailedTotal,
	)
}

var (
	sweepCheckedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_checked_total",
			Help: "Candidates examined per sweep kind.",
		},
		[]string{"kind"},
	)

	sweepEmailedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sweep_emailed_total",
			Help: "Notifications actually sent per sweep kind.",
		},
		[]string{"kind"},
	)
)

func AddSweep(kind string, checked, emailed int) {
	sweepCheckedTotal.WithLabelValues(norm(kind)).Add(float64(checked))
	sweepEmailedTotal.WithLabelValues(norm(kind)).Add(float64(emailed))
}
