package model

import (
	"sort"

	"tiered-subscription-service/internal/domain"
)

// Tier is an immutable catalog entry: a name, a rank that strictly
// increases with privilege, and the set of features the tier unlocks.
type Tier struct {
	Name     string
	Rank     int
	Features map[string]struct{}
}

// NewTier validates and constructs a tier.
func NewTier(name string, rank int, features []string) (Tier, error) {
	if name == "" || rank <= 0 {
		return Tier{}, domain.ErrInvalidArgument
	}
	fs := make(map[string]struct{}, len(features))
	for _, f := range features {
		if f == "" {
			return Tier{}, domain.ErrInvalidArgument
		}
		fs[f] = struct{}{}
	}
	return Tier{Name: name, Rank: rank, Features: fs}, nil
}

// TierCatalog is the static tier table loaded once at process start.
// It is read-only after construction, so lookups need no locking.
type TierCatalog struct {
	tiers map[string]Tier
}

// NewTierCatalog copies the given tiers into a fresh catalog so callers
// cannot mutate it afterwards.
func NewTierCatalog(tiers []Tier) (*TierCatalog, error) {
	if len(tiers) == 0 {
		return nil, domain.ErrInvalidArgument
	}
	m := make(map[string]Tier, len(tiers))
	for _, t := range tiers {
		if t.Name == "" || t.Rank <= 0 {
			return nil, domain.ErrInvalidArgument
		}
		fs := make(map[string]struct{}, len(t.Features))
		for f := range t.Features {
			fs[f] = struct{}{}
		}
		m[t.Name] = Tier{Name: t.Name, Rank: t.Rank, Features: fs}
	}
	return &TierCatalog{tiers: m}, nil
}

// Has reports whether the tier exists in the catalog.
func (c *TierCatalog) Has(name string) bool {
	_, ok := c.tiers[name]
	return ok
}

// RankOf returns the rank of the named tier.
func (c *TierCatalog) RankOf(name string) (int, error) {
	t, ok := c.tiers[name]
	if !ok {
		return 0, domain.ErrTierNotFound
	}
	return t.Rank, nil
}

// Allows reports whether the named tier's feature set contains feature.
func (c *TierCatalog) Allows(name, feature string) (bool, error) {
	t, ok := c.tiers[name]
	if !ok {
		return false, domain.ErrTierNotFound
	}
	_, ok = t.Features[feature]
	return ok, nil
}

// Names returns the tier names ordered by ascending rank.
func (c *TierCatalog) Names() []string {
	out := make([]string, 0, len(c.tiers))
	for name := range c.tiers {
		out = append(out, name)
	}
	sort.Slice(out, func(i, j int) bool {
		return c.tiers[out[i]].Rank < c.tiers[out[j]].Rank
	})
	return out
}
