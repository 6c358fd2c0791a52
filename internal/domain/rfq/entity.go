package rfq

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNoItems          = errors.New("rfq requires at least one item")
	ErrUnknownMaterial  = errors.New("unresolvable material key")
	ErrRequiredByPast   = errors.New("required-by date is in the past")
	ErrInvalidStatus    = errors.New("invalid rfq status")
	ErrAlreadyTerminal  = errors.New("rfq already in a terminal state")
	ErrNotAcceptingBids = errors.New("rfq is not accepting quotes")
)

type Rfq struct {
	id              uuid.UUID
	projectID       uuid.UUID
	requesterID     uuid.UUID
	deliveryAddress DeliveryAddress
	requiredBy      time.Time
	notes           Note
	status          Status
	items           []Item
	createdAt       time.Time
	expiresAt       time.Time
}

type Item struct {
	id             uuid.UUID
	materialKey    string
	quantity       Quantity
	unit           string
	specifications Note
}

func ReconstructRfq(
	id, projectID, requesterID uuid.UUID,
	deliveryAddress DeliveryAddress,
	requiredBy time.Time,
	notes Note,
	status Status,
	items []Item,
	createdAt, expiresAt time.Time,
) *Rfq {
	return &Rfq{
		id:              id,
		projectID:       projectID,
		requesterID:     requesterID,
		deliveryAddress: deliveryAddress,
		requiredBy:      requiredBy,
		notes:           notes,
		status:          status,
		items:           items,
		createdAt:       createdAt,
		expiresAt:       expiresAt,
	}
}

func ReconstructItem(id uuid.UUID, materialKey string, quantity Quantity, unit string, specifications Note) Item {
	return Item{
		id:             id,
		materialKey:    materialKey,
		quantity:       quantity,
		unit:           unit,
		specifications: specifications,
	}
}

func (r *Rfq) HasExpired(now time.Time) bool {
	return now.After(r.expiresAt)
}

func (r *Rfq) IsOwnedBy(requesterID uuid.UUID) bool {
	return r.requesterID == requesterID
}

// ItemIDs returns the set a quote's line items must reference.
func (r *Rfq) ItemIDs() map[uuid.UUID]struct{} {
	ids := make(map[uuid.UUID]struct{}, len(r.items))
	for _, item := range r.items {
		ids[item.id] = struct{}{}
	}
	return ids
}

func (r *Rfq) ID() uuid.UUID                    { return r.id }
func (r *Rfq) ProjectID() uuid.UUID             { return r.projectID }
func (r *Rfq) RequesterID() uuid.UUID           { return r.requesterID }
func (r *Rfq) DeliveryAddress() DeliveryAddress { return r.deliveryAddress }
func (r *Rfq) RequiredBy() time.Time            { return r.requiredBy }
func (r *Rfq) Notes() Note                      { return r.notes }
func (r *Rfq) Status() Status                   { return r.status }
func (r *Rfq) Items() []Item                    { return r.items }
func (r *Rfq) CreatedAt() time.Time             { return r.createdAt }
func (r *Rfq) ExpiresAt() time.Time             { return r.expiresAt }

func (i Item) ID() uuid.UUID        { return i.id }
func (i Item) MaterialKey() string  { return i.materialKey }
func (i Item) Quantity() Quantity   { return i.quantity }
func (i Item) Unit() string         { return i.unit }
func (i Item) Specifications() Note { return i.specifications }
