//go:build !integration

package model_test

import (
	"errors"
	"reflect"
	"testing"

	"tiered-subscription-service/internal/domain"
	"tiered-subscription-service/internal/domain/model"
)

func mustCatalog(t *testing.T) *model.TierCatalog {
	t.Helper()
	basic, _ := model.NewTier("basic", 1, []string{"chat"})
	pro, _ := model.NewTier("pro", 2, []string{"chat", "export"})
	catalog, err := model.NewTierCatalog([]model.Tier{basic, pro})
	if err != nil {
		t.Fatalf("catalog: %v", err)
	}
	return catalog
}

func TestNewSubscription(t *testing.T) {
	t.Run("should start active with a unique id", func(t *testing.T) {
		a, err := model.NewSubscription("user-1", "basic")
		if err != nil {
			t.Fatalf("expected no error, got: %v", err)
		}
		b, _ := model.NewSubscription("user-1", "basic")

		if !a.IsActive() {
			t.Error("new subscriptions must be active")
		}
		if a.ID == "" || a.ID == b.ID {
			t.Errorf("ids must be non-empty and unique: %q vs %q", a.ID, b.ID)
		}
		if a.CreatedAt.IsZero() {
			t.Error("expected CreatedAt to be set")
		}
	})

	t.Run("should reject empty user or tier", func(t *testing.T) {
		if _, err := model.NewSubscription("", "basic"); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("empty user: expected ErrInvalidArgument, got %v", err)
		}
		if _, err := model.NewSubscription("user-1", ""); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("empty tier: expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestNewTier(t *testing.T) {
	t.Run("should reject invalid tiers", func(t *testing.T) {
		cases := []struct {
			name     string
			rank     int
			features []string
		}{
			{"", 1, nil},
			{"basic", 0, nil},
			{"basic", -1, nil},
			{"basic", 1, []string{""}},
		}
		for _, c := range cases {
			if _, err := model.NewTier(c.name, c.rank, c.features); !errors.Is(err, domain.ErrInvalidArgument) {
				t.Errorf("NewTier(%q, %d, %v): expected ErrInvalidArgument, got %v", c.name, c.rank, c.features, err)
			}
		}
	})
}

func TestTierCatalog(t *testing.T) {
	catalog := mustCatalog(t)

	t.Run("should answer membership and rank lookups", func(t *testing.T) {
		if !catalog.Has("basic") || catalog.Has("platinum") {
			t.Error("membership lookup is wrong")
		}
		rank, err := catalog.RankOf("pro")
		if err != nil || rank != 2 {
			t.Errorf("RankOf(pro) = %d, %v; want 2, nil", rank, err)
		}
		if _, err := catalog.RankOf("platinum"); !errors.Is(err, domain.ErrTierNotFound) {
			t.Errorf("expected ErrTierNotFound, got %v", err)
		}
	})

	t.Run("should gate features by tier", func(t *testing.T) {
		ok, err := catalog.Allows("basic", "chat")
		if err != nil || !ok {
			t.Errorf("basic/chat: got %v, %v", ok, err)
		}
		ok, err = catalog.Allows("basic", "export")
		if err != nil || ok {
			t.Errorf("basic/export must be denied: got %v, %v", ok, err)
		}
		if _, err := catalog.Allows("platinum", "chat"); !errors.Is(err, domain.ErrTierNotFound) {
			t.Errorf("expected ErrTierNotFound, got %v", err)
		}
	})

	t.Run("should list names in rank order", func(t *testing.T) {
		if got := catalog.Names(); !reflect.DeepEqual(got, []string{"basic", "pro"}) {
			t.Errorf("Names() = %v", got)
		}
	})

	t.Run("should reject an empty catalog", func(t *testing.T) {
		if _, err := model.NewTierCatalog(nil); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}
