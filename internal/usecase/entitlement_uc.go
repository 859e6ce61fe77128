package usecase

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"tiered-subscription-service/internal/domain"
	"tiered-subscription-service/internal/domain/model"
	"tiered-subscription-service/internal/infra/metrics"
)

// UsageStats is a point-in-time snapshot over active subscriptions.
type UsageStats struct {
	TotalSubscribers int            `json:"total_subscribers"`
	PerTier          map[string]int `json:"per_tier"`
}

// StatsCache caches usage snapshots. Snapshot semantics are acceptable for
// this read path, so a short-TTL cache is fine. A nil result with nil
// error means cache miss.
type StatsCache interface {
	Get(ctx context.Context) (*UsageStats, error)
	Set(ctx context.Context, stats *UsageStats) error
}

// EntitlementUseCase is the read-path composition of the subscription
// manager and the tier catalog: it decides feature access and aggregates
// usage statistics. No write lock is ever taken here.
type EntitlementUseCase struct {
	subs    *SubscriptionUseCase
	catalog *model.TierCatalog
	cache   StatsCache // optional
	log     *zerolog.Logger
}

func NewEntitlementUseCase(subs *SubscriptionUseCase, catalog *model.TierCatalog, cache StatsCache, logger *zerolog.Logger) *EntitlementUseCase {
	return &EntitlementUseCase{subs: subs, catalog: catalog, cache: cache, log: logger}
}

// Authorize grants access iff the user has an active subscription whose
// tier unlocks the feature. nil means granted; otherwise the error is
// domain.ErrNotSubscribed or domain.ErrFeatureUnavailable.
func (uc *EntitlementUseCase) Authorize(ctx context.Context, userID, feature string) error {
	sub, err := uc.subs.ActiveForUser(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		metrics.IncAuthorize("not_subscribed")
		return domain.ErrNotSubscribed
	}
	if err != nil {
		return err
	}

	ok, err := uc.catalog.Allows(sub.TierName, feature)
	if err != nil {
		return err
	}
	if !ok {
		metrics.IncAuthorize("feature_unavailable")
		return domain.ErrFeatureUnavailable
	}

	metrics.IncAuthorize("granted")
	return nil
}

// Stats scans current active subscriptions and returns totals per tier.
// Served from the snapshot cache when one is configured; cache errors are
// treated as misses.
func (uc *EntitlementUseCase) Stats(ctx context.Context) (*UsageStats, error) {
	if uc.cache != nil {
		if cached, err := uc.cache.Get(ctx); err != nil {
			uc.log.Debug().Err(err).Msg("stats cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	subs, err := uc.subs.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	stats := &UsageStats{PerTier: make(map[string]int)}
	for _, s := range subs {
		stats.TotalSubscribers++
		stats.PerTier[s.TierName]++
	}

	metrics.SetActiveSubscriptions(stats.PerTier)
	if uc.cache != nil {
		if err := uc.cache.Set(ctx, stats); err != nil {
			uc.log.Debug().Err(err).Msg("stats cache write failed")
		}
	}
	return stats, nil
}
