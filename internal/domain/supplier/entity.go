// Package supplier is a read-only projection of the supplier directory.
// Records are owned by the vetting collaborator; matching consumes them and
// never writes back.
package supplier

import (
	"github.com/google/uuid"
)

type VerificationTier string

const (
	TierUnverified VerificationTier = "unverified"
	TierPending    VerificationTier = "pending"
	TierVerified   VerificationTier = "verified"
	TierTrusted    VerificationTier = "trusted"
	TierPremium    VerificationTier = "premium"
)

// Score maps the tier to its matching weight. Pending counts the same as
// unverified until vetting completes.
func (t VerificationTier) Score() float64 {
	switch t {
	case TierVerified:
		return 1
	case TierTrusted:
		return 2
	case TierPremium:
		return 3
	default:
		return 0
	}
}

func (t VerificationTier) IsValid() bool {
	switch t {
	case TierUnverified, TierPending, TierVerified, TierTrusted, TierPremium:
		return true
	default:
		return false
	}
}

type Supplier struct {
	ID               uuid.UUID
	Name             string
	Email            string
	Phone            string
	Location         string
	DeliveryRadiusKm float64
	Categories       []string
	Tier             VerificationTier
	Rating           float64 // 0..5
	ResponseRate     *float64
	Active           bool
}

// SuppliesAny reports whether the supplier's category set intersects the
// requested categories.
func (s Supplier) SuppliesAny(categories []string) bool {
	set := make(map[string]struct{}, len(s.Categories))
	for _, c := range s.Categories {
		set[c] = struct{}{}
	}
	for _, c := range categories {
		if _, ok := set[c]; ok {
			return true
		}
	}
	return false
}
