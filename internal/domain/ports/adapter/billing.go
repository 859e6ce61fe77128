package adapter

import "context"

// BillingGateway is the hex port for the external billing system.
//
// Every call is a single synchronous attempt: the use cases never retry,
// and they mutate the store only after a call returns nil. Retry/backoff,
// if wanted, lives behind this port.
type BillingGateway interface {
	Name() string

	// ProcessPayment charges the user for the named tier.
	ProcessPayment(ctx context.Context, userID, tierName string) error
	// CancelSubscription cancels the billing plan behind a subscription.
	CancelSubscription(ctx context.Context, subscriptionID string) error
	// UpgradePlan moves the billing plan to the new tier.
	UpgradePlan(ctx context.Context, subscriptionID, newTierName string) error
}
