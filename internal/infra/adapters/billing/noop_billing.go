package billing

import (
	"context"
	"fmt"
	"sync"

	"tiered-subscription-service/internal/domain/ports/adapter"
)

var _ adapter.BillingGateway = (*NoopGateway)(nil)

// NoopGateway approves every call and records it in memory. Used in dev
// mode and tests.
type NoopGateway struct {
	mu      sync.Mutex
	seq     int64
	charges map[string]string // reference -> "user_id/tier"
}

func NewNoopGateway() *NoopGateway {
	return &NoopGateway{charges: make(map[string]string)}
}

func (g *NoopGateway) Name() string { return "noop" }

func (g *NoopGateway) next() string {
	g.seq++
	return fmt.Sprintf("noop-%d", g.seq)
}

func (g *NoopGateway) ProcessPayment(_ context.Context, userID, tierName string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.charges[g.next()] = userID + "/" + tierName
	return nil
}

func (g *NoopGateway) CancelSubscription(_ context.Context, subscriptionID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.charges[g.next()] = "cancel/" + subscriptionID
	return nil
}

func (g *NoopGateway) UpgradePlan(_ context.Context, subscriptionID, newTierName string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.charges[g.next()] = "upgrade/" + subscriptionID + "/" + newTierName
	return nil
}

// Calls returns how many gateway calls were recorded.
func (g *NoopGateway) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.charges)
}
