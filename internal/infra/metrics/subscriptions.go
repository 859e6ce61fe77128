package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		subscriptionsCreatedTotal,
		subscriptionsCancelledTotal,
		tierUpgradesTotal,
		billingFailuresTotal,
		activeSubscriptions,
	)
}

var (
	subscriptionsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriptions_created_total",
			Help: "Subscriptions created, by tier.",
		},
		[]string{"tier"},
	)

	subscriptionsCancelledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "subscriptions_cancelled_total",
			Help: "Subscriptions cancelled, by tier at cancellation time.",
		},
		[]string{"tier"},
	)

	tierUpgradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tier_upgrades_total",
			Help: "Successful tier upgrades, by source and target tier.",
		},
		[]string{"from", "to"},
	)

	billingFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_failures_total",
			Help: "Billing gateway calls that returned an error, by operation.",
		},
		[]string{"op"}, // 'process_payment', 'cancel_subscription', 'upgrade_plan'
	)

	activeSubscriptions = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "active_subscriptions",
			Help: "Active subscriptions observed by the latest stats snapshot, by tier.",
		},
		[]string{"tier"},
	)
)

func IncSubscriptionCreated(tier string) {
	subscriptionsCreatedTotal.WithLabelValues(tier).Inc()
}

func IncSubscriptionCancelled(tier string) {
	subscriptionsCancelledTotal.WithLabelValues(tier).Inc()
}

func IncTierUpgrade(from, to string) {
	tierUpgradesTotal.WithLabelValues(from, to).Inc()
}

func IncBillingFailure(op string) {
	billingFailuresTotal.WithLabelValues(op).Inc()
}

func SetActiveSubscriptions(perTier map[string]int) {
	for tier, count := range perTier {
		activeSubscriptions.WithLabelValues(tier).Set(float64(count))
	}
}
