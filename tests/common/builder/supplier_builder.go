//go:build unit || e2e

package builder

import (
	"buildquote/internal/domain/supplier"

	"github.com/google/uuid"
)

type SupplierBuilder struct {
	ID         uuid.UUID
	Name       string
	Email      string
	Phone      string
	Location   string
	Categories []string
	Tier       supplier.VerificationTier
	Rating     float64
	Active     bool
}

func NewSupplierBuilder() *SupplierBuilder {
	return &SupplierBuilder{
		ID:         uuid.New(),
		Name:       "Mashonaland Building Supplies",
		Email:      "sales@mashbuild.co.zw",
		Phone:      "+263771234567",
		Location:   "Harare",
		Categories: []string{"cement", "bricks"},
		Tier:       supplier.TierVerified,
		Rating:     4.0,
		Active:     true,
	}
}

func (b *SupplierBuilder) With(mutate func(*SupplierBuilder)) *SupplierBuilder {
	mutate(b)
	return b
}

func (b *SupplierBuilder) Build() supplier.Supplier {
	return supplier.Supplier{
		ID:         b.ID,
		Name:       b.Name,
		Email:      b.Email,
		Phone:      b.Phone,
		Location:   b.Location,
		Categories: b.Categories,
		Tier:       b.Tier,
		Rating:     b.Rating,
		Active:     b.Active,
	}
}
