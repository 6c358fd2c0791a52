package request

import (
	"strings"
	"time"

	"buildquote/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRfqItemRequest struct {
	MaterialKey    string          `json:"material_key" binding:"required"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	Unit           string          `json:"unit,omitempty"`
	Specifications string          `json:"specifications,omitempty"`
}

type CreateRfqRequest struct {
	ProjectID       uuid.UUID              `json:"project_id" binding:"required"`
	DeliveryAddress string                 `json:"delivery_address" binding:"required"`
	RequiredBy      *time.Time             `json:"required_by,omitempty"`
	Notes           string                 `json:"notes,omitempty"`
	Items           []CreateRfqItemRequest `json:"items" binding:"required"`
}

func (r CreateRfqRequest) ToInput() commands.CreateRfqInput {
	items := make([]commands.CreateRfqItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, commands.CreateRfqItemInput{
			MaterialKey:    strings.TrimSpace(it.MaterialKey),
			Quantity:       it.Quantity,
			Unit:           strings.TrimSpace(it.Unit),
			Specifications: strings.TrimSpace(it.Specifications),
		})
	}

	input := commands.CreateRfqInput{
		ProjectID:       r.ProjectID,
		DeliveryAddress: strings.TrimSpace(r.DeliveryAddress),
		Notes:           strings.TrimSpace(r.Notes),
		Items:           items,
	}
	if r.RequiredBy != nil {
		input.RequiredBy = *r.RequiredBy
	}
	return input
}

type AcceptQuoteRequest struct {
	DeliveryInstructions string `json:"delivery_instructions,omitempty"`
}
