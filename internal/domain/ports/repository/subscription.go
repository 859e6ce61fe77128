package repository

import (
	"context"

	"tiered-subscription-service/internal/domain/model"
)

// SubscriptionStore is the keyed store of subscription records.
//
// Implementations must make writes atomic from a reader's perspective and
// serve reads from the latest committed write for a key. The
// at-most-one-active-per-user invariant itself is upheld by the use case's
// per-user serialization, which brackets every create/cancel/upgrade.
type SubscriptionStore interface {
	// Save inserts or replaces the record with sub.ID.
	Save(ctx context.Context, sub *model.Subscription) error
	// FindByID returns the record or domain.ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Subscription, error)
	// FindActiveByUser returns the user's active subscription or domain.ErrNotFound.
	FindActiveByUser(ctx context.Context, userID string) (*model.Subscription, error)
	// ListActive returns a snapshot of all active subscriptions.
	ListActive(ctx context.Context) ([]*model.Subscription, error)
}
