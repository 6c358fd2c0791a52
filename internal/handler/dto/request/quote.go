package request

import (
	"strings"
	"time"

	"buildquote/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SubmitQuoteItemRequest struct {
	RfqItemID    uuid.UUID       `json:"rfq_item_id" binding:"required"`
	UnitPriceUSD decimal.Decimal `json:"unit_price_usd" binding:"required"`
	UnitPriceZWG decimal.Decimal `json:"unit_price_zwg,omitempty"`
	AvailableQty decimal.Decimal `json:"available_qty" binding:"required"`
	Notes        string          `json:"notes,omitempty"`
}

type SubmitQuoteRequest struct {
	DeliveryDays int                      `json:"delivery_days" binding:"required"`
	ValidUntil   *time.Time               `json:"valid_until,omitempty"`
	Notes        string                   `json:"notes,omitempty"`
	Items        []SubmitQuoteItemRequest `json:"items" binding:"required"`
}

func (r SubmitQuoteRequest) ToInput(rfqID uuid.UUID) commands.SubmitQuoteInput {
	items := make([]commands.SubmitQuoteItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, commands.SubmitQuoteItemInput{
			RfqItemID:    it.RfqItemID,
			UnitPriceUSD: it.UnitPriceUSD,
			UnitPriceZWG: it.UnitPriceZWG,
			AvailableQty: it.AvailableQty,
			Notes:        strings.TrimSpace(it.Notes),
		})
	}

	input := commands.SubmitQuoteInput{
		RfqID:        rfqID,
		DeliveryDays: r.DeliveryDays,
		Notes:        strings.TrimSpace(r.Notes),
		Items:        items,
	}
	if r.ValidUntil != nil {
		input.ValidUntil = *r.ValidUntil
	}
	return input
}
