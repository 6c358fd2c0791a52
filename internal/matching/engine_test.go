//go:build unit

package matching_test

import (
	"fmt"
	"testing"

	"buildquote/internal/domain/supplier"
	"buildquote/internal/matching"
	"buildquote/tests/common/builder"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEngine() *matching.Engine {
	return matching.NewEngine(matching.DefaultConfig(), matching.SubstringLocationFilter{}, matching.UnsetResponseRate{})
}

func TestMatchFiltering(t *testing.T) {
	categories := []string{"cement"}
	location := "Harare"

	testCases := []struct {
		name    string
		mutate  func(*builder.SupplierBuilder)
		matched bool
	}{
		{
			name:    "active supplier in category and location",
			mutate:  func(b *builder.SupplierBuilder) {},
			matched: true,
		},
		{
			name:    "inactive supplier",
			mutate:  func(b *builder.SupplierBuilder) { b.Active = false },
			matched: false,
		},
		{
			name:    "no category overlap",
			mutate:  func(b *builder.SupplierBuilder) { b.Categories = []string{"roofing"} },
			matched: false,
		},
		{
			name:    "partial category overlap",
			mutate:  func(b *builder.SupplierBuilder) { b.Categories = []string{"roofing", "cement"} },
			matched: true,
		},
		{
			name:    "location not serviceable",
			mutate:  func(b *builder.SupplierBuilder) { b.Location = "Bulawayo" },
			matched: false,
		},
		{
			name:    "location match is case-insensitive",
			mutate:  func(b *builder.SupplierBuilder) { b.Location = "HARARE" },
			matched: true,
		},
		{
			name:    "supplier location contains the delivery location",
			mutate:  func(b *builder.SupplierBuilder) { b.Location = "Greater Harare Metro" },
			matched: true,
		},
		{
			name:    "empty supplier location",
			mutate:  func(b *builder.SupplierBuilder) { b.Location = "" },
			matched: false,
		},
		{
			name:    "unverified tier still matches",
			mutate:  func(b *builder.SupplierBuilder) { b.Tier = supplier.TierUnverified },
			matched: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := builder.NewSupplierBuilder().With(tc.mutate).Build()
			ranked := newEngine().Match([]supplier.Supplier{s}, categories, location)
			if tc.matched {
				assert.Len(t, ranked, 1)
			} else {
				assert.Empty(t, ranked)
			}
		})
	}
}

func TestMatchScoring(t *testing.T) {
	// Default weights: tier*2.0 + (rating/5)*1.0.
	premium := builder.NewSupplierBuilder().With(func(b *builder.SupplierBuilder) {
		b.Name = "Premium Yard"
		b.Tier = supplier.TierPremium
		b.Rating = 3.0
	}).Build()
	verified := builder.NewSupplierBuilder().With(func(b *builder.SupplierBuilder) {
		b.Name = "Verified Yard"
		b.Tier = supplier.TierVerified
		b.Rating = 5.0
	}).Build()
	unverified := builder.NewSupplierBuilder().With(func(b *builder.SupplierBuilder) {
		b.Name = "Unverified Yard"
		b.Tier = supplier.TierUnverified
		b.Rating = 5.0
	}).Build()

	ranked := newEngine().Match(
		[]supplier.Supplier{unverified, verified, premium},
		[]string{"cement"}, "Harare")
	require.Len(t, ranked, 3)

	assert.Equal(t, "Premium Yard", ranked[0].Supplier.Name)
	assert.InDelta(t, 6.6, ranked[0].Score, 1e-9) // 3*2.0 + 3/5
	assert.Equal(t, "Verified Yard", ranked[1].Supplier.Name)
	assert.InDelta(t, 3.0, ranked[1].Score, 1e-9) // 1*2.0 + 5/5
	assert.Equal(t, "Unverified Yard", ranked[2].Supplier.Name)
	assert.InDelta(t, 1.0, ranked[2].Score, 1e-9)
}

func TestMatchTieBreakByName(t *testing.T) {
	mk := func(name string) supplier.Supplier {
		return builder.NewSupplierBuilder().With(func(b *builder.SupplierBuilder) {
			b.Name = name
		}).Build()
	}

	ranked := newEngine().Match(
		[]supplier.Supplier{mk("Zulu Hardware"), mk("Acme Hardware"), mk("Mega Hardware")},
		[]string{"cement"}, "Harare")
	require.Len(t, ranked, 3)

	assert.Equal(t, "Acme Hardware", ranked[0].Supplier.Name)
	assert.Equal(t, "Mega Hardware", ranked[1].Supplier.Name)
	assert.Equal(t, "Zulu Hardware", ranked[2].Supplier.Name)
}

func TestMatchCap(t *testing.T) {
	candidates := make([]supplier.Supplier, 0, 15)
	for i := range 15 {
		candidates = append(candidates, builder.NewSupplierBuilder().With(func(b *builder.SupplierBuilder) {
			b.Name = fmt.Sprintf("Supplier %02d", i)
			b.Rating = float64(i%5) + 1
		}).Build())
	}

	ranked := newEngine().Match(candidates, []string{"cement"}, "Harare")
	assert.Len(t, ranked, 10)

	cfg := matching.DefaultConfig()
	cfg.Cap = 3
	ranked = matching.NewEngine(cfg, nil, nil).Match(candidates, []string{"cement"}, "Harare")
	assert.Len(t, ranked, 3)
}

func TestMatchNoCandidates(t *testing.T) {
	ranked := newEngine().Match(nil, []string{"cement"}, "Harare")
	assert.Empty(t, ranked)
}

func TestResponseRateWeight(t *testing.T) {
	cfg := matching.Config{TierWeight: 0, RatingWeight: 0, ResponseRateWeight: 4, Cap: 10}

	t.Run("unset source contributes nothing", func(t *testing.T) {
		s := builder.NewSupplierBuilder().Build()
		ranked := matching.NewEngine(cfg, nil, matching.UnsetResponseRate{}).
			Match([]supplier.Supplier{s}, []string{"cement"}, "Harare")
		require.Len(t, ranked, 1)
		assert.Zero(t, ranked[0].Score)
	})

	t.Run("present rate is weighted in", func(t *testing.T) {
		s := builder.NewSupplierBuilder().Build()
		ranked := matching.NewEngine(cfg, nil, fixedRate(0.5)).
			Match([]supplier.Supplier{s}, []string{"cement"}, "Harare")
		require.Len(t, ranked, 1)
		assert.InDelta(t, 2.0, ranked[0].Score, 1e-9)
	})
}

type fixedRate float64

func (r fixedRate) ResponseRate(supplier.Supplier) (float64, bool) {
	return float64(r), true
}
