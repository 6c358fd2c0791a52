//go:build unit || e2e

package builder

import (
	"time"

	"buildquote/internal/domain/catalog"
	"buildquote/internal/domain/rfq"
	"buildquote/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// FixedNow is the reference instant every builder clock starts at.
var FixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type RfqBuilder struct {
	RequesterID     uuid.UUID
	ProjectID       uuid.UUID
	DeliveryAddress string
	RequiredBy      time.Time
	Notes           string
	Items           []rfq.ItemSpec
	Materials       map[string]catalog.Material
	Now             time.Time
	ExpiryDays      int
}

func NewRfqBuilder() *RfqBuilder {
	return &RfqBuilder{
		RequesterID:     uuid.New(),
		ProjectID:       uuid.New(),
		DeliveryAddress: "14 Samora Machel Ave, Harare",
		RequiredBy:      FixedNow.AddDate(0, 0, 30),
		Notes:           "Deliver to site office",
		Items: []rfq.ItemSpec{
			{MaterialKey: "cement-42.5", Quantity: decimal.NewFromInt(100), Unit: "bag"},
			{MaterialKey: "brick-common", Quantity: decimal.NewFromInt(5000), Unit: "unit"},
		},
		Materials:  DefaultMaterials(),
		Now:        FixedNow,
		ExpiryDays: 14,
	}
}

func DefaultMaterials() map[string]catalog.Material {
	return map[string]catalog.Material{
		"cement-42.5":  {Key: "cement-42.5", Name: "Cement 42.5N", Unit: "bag", Category: "cement"},
		"brick-common": {Key: "brick-common", Name: "Common Brick", Unit: "unit", Category: "bricks"},
		"timber-pine":  {Key: "timber-pine", Name: "Pine Timber 38x114", Unit: "m", Category: "timber"},
	}
}

func (b *RfqBuilder) With(mutate func(*RfqBuilder)) *RfqBuilder {
	mutate(b)
	return b
}

func (b *RfqBuilder) BuildDomain() (*rfq.Rfq, error) {
	factory := rfq.NewFactory(&rfq.Services{Clock: clock.NewMockClock(b.Now)}, b.ExpiryDays)
	return factory.NewRfq(b.RequesterID, b.ProjectID, b.DeliveryAddress,
		b.RequiredBy, b.Notes, b.Items, b.Materials)
}
