package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		applicationsTotal,
		verificationsTotal,
		wireRevenueTotal,
	)
}

var (
	applicationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_applications_total",
			Help: "Payment applications created, by method (wire/stripe/whop/manual).",
		},
		[]string{"method"},
	)

	verificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_verifications_total",
			Help: "Verification attempts by outcome (approved/insufficient/reference_not_found/manual_override).",
		},
		[]string{"outcome"},
	)

	wireRevenueTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "wire_revenue_total",
			Help: "Total confirmed wire revenue in dollars.",
		},
	)
)

func IncApplication(method string) {
	applicationsTotal.WithLabelValues(norm(method)).Inc()
}

func IncVerification(outcome string) {
	verificationsTotal.WithLabelValues(norm(outcome)).Inc()
}

func AddWireRevenue(amount float64) {
	wireRevenueTotal.Add(amount)
}
