package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"tiered-subscription-service/internal/domain"
	"tiered-subscription-service/internal/domain/model"
	"tiered-subscription-service/internal/domain/ports/adapter"
	"tiered-subscription-service/internal/domain/ports/repository"
	"tiered-subscription-service/internal/infra/metrics"
)

// SubscriptionUseCase drives the subscription state machine:
// active -> active (tier upgrade) and active -> cancelled (terminal).
//
// Create/cancel/upgrade for the same user are mutually exclusive; the
// billing call happens inside that exclusion and the store is written only
// after billing confirms. Every failure path leaves the store untouched.
// Reads take no lock and observe the latest committed record.
type SubscriptionUseCase struct {
	subs    repository.SubscriptionStore
	catalog *model.TierCatalog
	billing adapter.BillingGateway
	locks   userLocks
	log     *zerolog.Logger
}

func NewSubscriptionUseCase(subs repository.SubscriptionStore, catalog *model.TierCatalog, billing adapter.BillingGateway, logger *zerolog.Logger) *SubscriptionUseCase {
	return &SubscriptionUseCase{subs: subs, catalog: catalog, billing: billing, log: logger}
}

// CreateSubscription charges the user for the tier and records an active
// subscription, returning its id. Fails with domain.ErrTierNotFound,
// domain.ErrDuplicateActiveSubscription or domain.ErrSubscriptionCreationFailed.
func (uc *SubscriptionUseCase) CreateSubscription(ctx context.Context, userID, tierName string) (string, error) {
	if userID == "" {
		return "", domain.ErrInvalidArgument
	}
	if !uc.catalog.Has(tierName) {
		return "", domain.ErrTierNotFound
	}

	unlock := uc.locks.lock(userID)
	defer unlock()

	existing, err := uc.subs.FindActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return "", err
	}
	if existing != nil {
		return "", domain.ErrDuplicateActiveSubscription
	}

	// Single attempt; no store write unless billing succeeds.
	if err := uc.billing.ProcessPayment(ctx, userID, tierName); err != nil {
		metrics.IncBillingFailure("process_payment")
		uc.log.Warn().Err(err).Str("user_id", userID).Str("tier", tierName).Msg("billing rejected payment")
		return "", fmt.Errorf("%w: %v", domain.ErrSubscriptionCreationFailed, err)
	}

	sub, err := model.NewSubscription(userID, tierName)
	if err != nil {
		return "", err
	}
	if err := uc.subs.Save(ctx, sub); err != nil {
		// Billing already succeeded; surface the store failure loudly so the
		// surrounding service can reconcile the charge.
		uc.log.Error().Err(err).Str("user_id", userID).Str("subscription_id", sub.ID).Msg("store write failed after successful charge")
		return "", err
	}

	metrics.IncSubscriptionCreated(tierName)
	uc.log.Info().Str("user_id", userID).Str("subscription_id", sub.ID).Str("tier", tierName).Msg("subscription created")
	return sub.ID, nil
}

// GetSubscription returns the record by id, or domain.ErrSubscriptionNotFound.
// Pure read; absence is an ordinary typed outcome, not a failure.
func (uc *SubscriptionUseCase) GetSubscription(ctx context.Context, id string) (*model.Subscription, error) {
	sub, err := uc.subs.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrSubscriptionNotFound
	}
	return sub, err
}

// ActiveForUser returns the user's active subscription or domain.ErrNotFound.
// Lock-free read path used by the entitlement gateway.
func (uc *SubscriptionUseCase) ActiveForUser(ctx context.Context, userID string) (*model.Subscription, error) {
	return uc.subs.FindActiveByUser(ctx, userID)
}

// ListActive returns a snapshot of all active subscriptions.
func (uc *SubscriptionUseCase) ListActive(ctx context.Context) ([]*model.Subscription, error) {
	return uc.subs.ListActive(ctx)
}

// CancelSubscription cancels the billing plan and marks the record
// cancelled. Cancelled records are terminal. Fails with
// domain.ErrSubscriptionNotFound, domain.ErrAlreadyCancelled or
// domain.ErrCancellationFailed (record stays active in that last case).
func (uc *SubscriptionUseCase) CancelSubscription(ctx context.Context, id string) error {
	owner, err := uc.subs.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrSubscriptionNotFound
	}
	if err != nil {
		return err
	}

	unlock := uc.locks.lock(owner.UserID)
	defer unlock()

	// Re-read inside the lock; the record may have changed while we waited.
	sub, err := uc.subs.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrSubscriptionNotFound
	}
	if err != nil {
		return err
	}
	if sub.Status == model.SubscriptionStatusCancelled {
		return domain.ErrAlreadyCancelled
	}

	if err := uc.billing.CancelSubscription(ctx, id); err != nil {
		metrics.IncBillingFailure("cancel_subscription")
		uc.log.Warn().Err(err).Str("subscription_id", id).Msg("billing rejected cancellation")
		return fmt.Errorf("%w: %v", domain.ErrCancellationFailed, err)
	}

	sub.Status = model.SubscriptionStatusCancelled
	if err := uc.subs.Save(ctx, sub); err != nil {
		return err
	}

	metrics.IncSubscriptionCancelled(sub.TierName)
	uc.log.Info().Str("subscription_id", id).Str("user_id", sub.UserID).Msg("subscription cancelled")
	return nil
}

// UpgradeTier moves an active subscription to a strictly higher-ranked
// tier. Downgrades and no-ops are rejected with domain.ErrInvalidUpgrade;
// a cancelled id behaves as not found. On domain.ErrUpgradeFailed the
// record is unchanged.
func (uc *SubscriptionUseCase) UpgradeTier(ctx context.Context, id, newTierName string) error {
	owner, err := uc.subs.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrSubscriptionNotFound
	}
	if err != nil {
		return err
	}

	unlock := uc.locks.lock(owner.UserID)
	defer unlock()

	sub, err := uc.subs.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.ErrSubscriptionNotFound
	}
	if err != nil {
		return err
	}
	if sub.Status == model.SubscriptionStatusCancelled {
		// Terminal state: no transition leaves cancelled.
		return domain.ErrSubscriptionNotFound
	}

	newRank, err := uc.catalog.RankOf(newTierName)
	if err != nil {
		return domain.ErrTierNotFound
	}
	curRank, err := uc.catalog.RankOf(sub.TierName)
	if err != nil {
		// Store invariant: tier_name always references a catalog entry.
		return err
	}
	if newRank <= curRank {
		return domain.ErrInvalidUpgrade
	}

	if err := uc.billing.UpgradePlan(ctx, id, newTierName); err != nil {
		metrics.IncBillingFailure("upgrade_plan")
		uc.log.Warn().Err(err).Str("subscription_id", id).Str("tier", newTierName).Msg("billing rejected upgrade")
		return fmt.Errorf("%w: %v", domain.ErrUpgradeFailed, err)
	}

	oldTier := sub.TierName
	sub.TierName = newTierName
	if err := uc.subs.Save(ctx, sub); err != nil {
		return err
	}

	metrics.IncTierUpgrade(oldTier, newTierName)
	uc.log.Info().Str("subscription_id", id).Str("from", oldTier).Str("to", newTierName).Msg("tier upgraded")
	return nil
}
