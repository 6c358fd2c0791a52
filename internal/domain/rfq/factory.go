package rfq

import (
	"fmt"
	"time"

	"buildquote/internal/domain/catalog"
	"buildquote/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Services struct {
	Clock clock.Clock
}

type Factory struct {
	services   *Services
	expiryDays int
}

func NewFactory(services *Services, expiryDays int) *Factory {
	if expiryDays <= 0 {
		expiryDays = 14
	}
	return &Factory{services: services, expiryDays: expiryDays}
}

// ItemSpec is the raw item input before material keys are resolved.
type ItemSpec struct {
	MaterialKey    string
	Quantity       decimal.Decimal
	Unit           string
	Specifications string
}

// NewRfq validates the full request and builds the aggregate. Every material
// key must resolve against the catalog; quantities must be positive; the item
// list must be non-empty. The RFQ is born open and expires a fixed number of
// days after creation.
func (f *Factory) NewRfq(
	requesterID, projectID uuid.UUID,
	deliveryAddress string,
	requiredBy time.Time,
	notes string,
	specs []ItemSpec,
	materials map[string]catalog.Material,
) (*Rfq, error) {
	if len(specs) == 0 {
		return nil, ErrNoItems
	}

	address, err := NewDeliveryAddress(deliveryAddress)
	if err != nil {
		return nil, err
	}

	now := f.services.Clock.Now()
	if !requiredBy.IsZero() && requiredBy.Before(now) {
		return nil, ErrRequiredByPast
	}

	items := make([]Item, 0, len(specs))
	for _, spec := range specs {
		item, err := f.newItem(spec, materials)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return &Rfq{
		id:              uuid.New(),
		projectID:       projectID,
		requesterID:     requesterID,
		deliveryAddress: address,
		requiredBy:      requiredBy,
		notes:           NewNote(notes),
		status:          StatusOpen,
		items:           items,
		createdAt:       now,
		expiresAt:       now.AddDate(0, 0, f.expiryDays),
	}, nil
}

func (f *Factory) newItem(spec ItemSpec, materials map[string]catalog.Material) (Item, error) {
	if spec.MaterialKey == "" {
		return Item{}, ErrEmptyMaterialKey
	}
	material, ok := materials[spec.MaterialKey]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrUnknownMaterial, spec.MaterialKey)
	}

	quantity, err := NewQuantity(spec.Quantity)
	if err != nil {
		return Item{}, fmt.Errorf("%w: %s", err, spec.MaterialKey)
	}

	unit := spec.Unit
	if unit == "" {
		unit = material.Unit
	}
	if unit == "" {
		return Item{}, ErrEmptyUnit
	}

	return Item{
		id:             uuid.New(),
		materialKey:    spec.MaterialKey,
		quantity:       quantity,
		unit:           unit,
		specifications: NewNote(spec.Specifications),
	}, nil
}
