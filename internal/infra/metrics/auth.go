package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		loginsTotal,
		authorizeDecisionsTotal,
	)
}

var (
	loginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "logins_total",
			Help: "Authentication attempts, by result.",
		},
		[]string{"result"}, // 'ok', 'rejected'
	)

	authorizeDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "authorize_decisions_total",
			Help: "Entitlement decisions, by outcome.",
		},
		[]string{"decision"}, // 'granted', 'not_subscribed', 'feature_unavailable'
	)
)

func IncLogin(result string) {
	loginsTotal.WithLabelValues(result).Inc()
}

func IncAuthorize(decision string) {
	authorizeDecisionsTotal.WithLabelValues(decision).Inc()
}
