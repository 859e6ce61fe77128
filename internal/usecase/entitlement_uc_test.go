//go:build !integration

package usecase_test

import (
	"context"
	"errors"
	"testing"

	"tiered-subscription-service/internal/domain"
	"tiered-subscription-service/internal/domain/model"
	"tiered-subscription-service/internal/usecase"
)

func newEntUC(store *MockSubscriptionStore, cache usecase.StatsCache) (*usecase.EntitlementUseCase, *usecase.SubscriptionUseCase) {
	catalog := newTestCatalog()
	subUC := usecase.NewSubscriptionUseCase(store, catalog, NewMockBillingGateway(), newTestLogger())
	return usecase.NewEntitlementUseCase(subUC, catalog, cache, newTestLogger()), subUC
}

func TestEntitlementUseCase_Authorize(t *testing.T) {
	ctx := context.Background()

	t.Run("should grant a feature the tier unlocks", func(t *testing.T) {
		ent, subUC := newEntUC(NewMockSubscriptionStore(), nil)
		if _, err := subUC.CreateSubscription(ctx, "user-123", "pro"); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if err := ent.Authorize(ctx, "user-123", "export"); err != nil {
			t.Fatalf("expected grant, got: %v", err)
		}
	})

	t.Run("should deny a feature above the tier", func(t *testing.T) {
		ent, subUC := newEntUC(NewMockSubscriptionStore(), nil)
		if _, err := subUC.CreateSubscription(ctx, "user-123", "basic"); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if err := ent.Authorize(ctx, "user-123", "export"); !errors.Is(err, domain.ErrFeatureUnavailable) {
			t.Fatalf("expected ErrFeatureUnavailable, got: %v", err)
		}
	})

	t.Run("should deny a user without an active subscription", func(t *testing.T) {
		ent, _ := newEntUC(NewMockSubscriptionStore(), nil)
		if err := ent.Authorize(ctx, "user-123", "chat"); !errors.Is(err, domain.ErrNotSubscribed) {
			t.Fatalf("expected ErrNotSubscribed, got: %v", err)
		}
	})

	t.Run("should deny a user whose subscription was cancelled", func(t *testing.T) {
		ent, subUC := newEntUC(NewMockSubscriptionStore(), nil)
		id, _ := subUC.CreateSubscription(ctx, "user-123", "pro")
		if err := subUC.CancelSubscription(ctx, id); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}
		if err := ent.Authorize(ctx, "user-123", "export"); !errors.Is(err, domain.ErrNotSubscribed) {
			t.Fatalf("expected ErrNotSubscribed after cancel, got: %v", err)
		}
	})

	t.Run("should grant a previously denied feature after an upgrade", func(t *testing.T) {
		ent, subUC := newEntUC(NewMockSubscriptionStore(), nil)
		id, _ := subUC.CreateSubscription(ctx, "user-123", "basic")

		if err := ent.Authorize(ctx, "user-123", "export"); !errors.Is(err, domain.ErrFeatureUnavailable) {
			t.Fatalf("expected denial before upgrade, got: %v", err)
		}
		if err := subUC.UpgradeTier(ctx, id, "pro"); err != nil {
			t.Fatalf("upgrade failed: %v", err)
		}
		if err := ent.Authorize(ctx, "user-123", "export"); err != nil {
			t.Fatalf("expected grant after upgrade, got: %v", err)
		}
	})
}

func TestEntitlementUseCase_Stats(t *testing.T) {
	ctx := context.Background()

	t.Run("should aggregate active subscriptions per tier", func(t *testing.T) {
		ent, subUC := newEntUC(NewMockSubscriptionStore(), nil)
		for i, tc := range []struct{ user, tier string }{
			{"u1", "basic"}, {"u2", "basic"}, {"u3", "pro"},
		} {
			if _, err := subUC.CreateSubscription(ctx, tc.user, tc.tier); err != nil {
				t.Fatalf("create %d failed: %v", i, err)
			}
		}
		cancelledID, _ := subUC.CreateSubscription(ctx, "u4", "enterprise")
		if err := subUC.CancelSubscription(ctx, cancelledID); err != nil {
			t.Fatalf("cancel failed: %v", err)
		}

		stats, err := ent.Stats(ctx)
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		if stats.TotalSubscribers != 3 {
			t.Errorf("expected 3 subscribers, got %d", stats.TotalSubscribers)
		}
		if stats.PerTier["basic"] != 2 || stats.PerTier["pro"] != 1 {
			t.Errorf("unexpected per-tier counts: %v", stats.PerTier)
		}
		if _, ok := stats.PerTier["enterprise"]; ok {
			t.Error("cancelled subscriptions must not be counted")
		}
	})

	t.Run("should serve from the cache on a hit", func(t *testing.T) {
		cache := &MockStatsCache{}
		store := NewMockSubscriptionStore()
		ent, subUC := newEntUC(store, cache)
		if _, err := subUC.CreateSubscription(ctx, "u1", "basic"); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		first, err := ent.Stats(ctx)
		if err != nil {
			t.Fatalf("first call: %v", err)
		}
		if cache.Sets != 1 {
			t.Fatalf("expected one cache write, got %d", cache.Sets)
		}

		// A hit must not touch the store.
		storeCalls := 0
		store.ListActiveFunc = func(ctx context.Context) ([]*model.Subscription, error) {
			storeCalls++
			return nil, nil
		}
		second, err := ent.Stats(ctx)
		if err != nil {
			t.Fatalf("second call: %v", err)
		}
		if second.TotalSubscribers != first.TotalSubscribers {
			t.Errorf("cached snapshot differs: %d vs %d", second.TotalSubscribers, first.TotalSubscribers)
		}
		if storeCalls != 0 {
			t.Errorf("cache hit must not scan the store, got %d scans", storeCalls)
		}
	})

	t.Run("should fall back to the store when the cache errors", func(t *testing.T) {
		cache := &MockStatsCache{
			GetFunc: func(ctx context.Context) (*usecase.UsageStats, error) {
				return nil, errors.New("redis down")
			},
		}
		ent, subUC := newEntUC(NewMockSubscriptionStore(), cache)
		if _, err := subUC.CreateSubscription(ctx, "u1", "pro"); err != nil {
			t.Fatalf("create failed: %v", err)
		}

		stats, err := ent.Stats(ctx)
		if err != nil {
			t.Fatalf("cache errors must degrade to a store scan, got: %v", err)
		}
		if stats.TotalSubscribers != 1 {
			t.Errorf("expected 1 subscriber, got %d", stats.TotalSubscribers)
		}
	})
}
