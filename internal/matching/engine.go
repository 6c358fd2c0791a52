// Package matching selects and ranks the suppliers to notify about an RFQ.
package matching

import (
	"sort"
	"strings"

	"buildquote/internal/domain/supplier"
)

// LocationFilter decides whether a supplier can serve a delivery location.
// The production filter is a substring match on the location string; a true
// geo-radius filter is a planned replacement behind the same interface.
type LocationFilter interface {
	CanServe(s supplier.Supplier, deliveryLocation string) bool
}

// ResponseRateSource supplies the response-rate metric for scoring. The
// directory does not track the metric yet; UnsetResponseRate keeps the slot
// open without influencing scores.
type ResponseRateSource interface {
	ResponseRate(s supplier.Supplier) (rate float64, ok bool)
}

// SubstringLocationFilter matches when either location string contains the
// other, case-insensitively. Delivery radius is ignored until precise
// geocoding lands.
type SubstringLocationFilter struct{}

func (SubstringLocationFilter) CanServe(s supplier.Supplier, deliveryLocation string) bool {
	if s.Location == "" || deliveryLocation == "" {
		return false
	}
	a := strings.ToLower(s.Location)
	b := strings.ToLower(deliveryLocation)
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// UnsetResponseRate reports the metric as absent for every supplier.
type UnsetResponseRate struct{}

func (UnsetResponseRate) ResponseRate(supplier.Supplier) (float64, bool) {
	return 0, false
}

type Engine struct {
	cfg       Config
	locations LocationFilter
	rates     ResponseRateSource
}

func NewEngine(cfg Config, locations LocationFilter, rates ResponseRateSource) *Engine {
	if cfg.Cap <= 0 {
		cfg.Cap = DefaultConfig().Cap
	}
	if locations == nil {
		locations = SubstringLocationFilter{}
	}
	if rates == nil {
		rates = UnsetResponseRate{}
	}
	return &Engine{cfg: cfg, locations: locations, rates: rates}
}

type Ranked struct {
	Supplier supplier.Supplier
	Score    float64
}

// Match filters the candidates by category intersection and serviceable
// location, scores the survivors, and returns at most cfg.Cap of them ranked
// by descending score with supplier name as a stable tie-break. An empty
// result is not an error; the RFQ simply has no matches.
func (e *Engine) Match(candidates []supplier.Supplier, categories []string, deliveryLocation string) []Ranked {
	ranked := make([]Ranked, 0, len(candidates))
	for _, s := range candidates {
		if !s.Active {
			continue
		}
		if !s.SuppliesAny(categories) {
			continue
		}
		if !e.locations.CanServe(s, deliveryLocation) {
			continue
		}
		ranked = append(ranked, Ranked{Supplier: s, Score: e.score(s)})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].Supplier.Name < ranked[j].Supplier.Name
	})

	if len(ranked) > e.cfg.Cap {
		ranked = ranked[:e.cfg.Cap]
	}
	return ranked
}

func (e *Engine) score(s supplier.Supplier) float64 {
	score := s.Tier.Score()*e.cfg.TierWeight + (s.Rating/5.0)*e.cfg.RatingWeight
	if rate, ok := e.rates.ResponseRate(s); ok {
		score += rate * e.cfg.ResponseRateWeight
	}
	return score
}
