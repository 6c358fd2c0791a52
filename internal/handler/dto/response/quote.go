package response

import (
	"time"

	"buildquote/internal/usecase/commands"
	"buildquote/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SubmitQuoteResponse struct {
	QuoteID  uuid.UUID       `json:"quoteId"`
	TotalUSD decimal.Decimal `json:"totalUsd"`
	TotalZWG decimal.Decimal `json:"totalZwg"`
	Replaced bool            `json:"replaced"`
}

func FromSubmitQuoteResult(r *commands.SubmitQuoteResult) *SubmitQuoteResponse {
	return &SubmitQuoteResponse{
		QuoteID:  r.QuoteID,
		TotalUSD: r.TotalUSD,
		TotalZWG: r.TotalZWG,
		Replaced: r.Replaced,
	}
}

type AcceptQuoteResponse struct {
	AcceptedQuoteID  uuid.UUID   `json:"acceptedQuoteId"`
	RejectedQuoteIDs []uuid.UUID `json:"rejectedQuoteIds"`
}

func FromAcceptQuoteResult(r *commands.AcceptQuoteResult) *AcceptQuoteResponse {
	return &AcceptQuoteResponse{
		AcceptedQuoteID:  r.AcceptedQuoteID,
		RejectedQuoteIDs: r.RejectedQuoteIDs,
	}
}

type QuoteItemResponse struct {
	ID           uuid.UUID       `json:"id"`
	RfqItemID    uuid.UUID       `json:"rfqItemId"`
	MaterialKey  string          `json:"materialKey"`
	MaterialName string          `json:"materialName"`
	UnitPriceUSD decimal.Decimal `json:"unitPriceUsd"`
	UnitPriceZWG decimal.Decimal `json:"unitPriceZwg"`
	AvailableQty decimal.Decimal `json:"availableQty"`
	Notes        string          `json:"notes,omitempty"`
}

type QuoteResponse struct {
	ID           uuid.UUID           `json:"id"`
	RfqID        uuid.UUID           `json:"rfqId"`
	SupplierID   uuid.UUID           `json:"supplierId"`
	SupplierName string              `json:"supplierName"`
	TierLabel    string              `json:"tierLabel"`
	Rating       float64             `json:"rating"`
	TotalUSD     decimal.Decimal     `json:"totalUsd"`
	TotalZWG     decimal.Decimal     `json:"totalZwg"`
	DeliveryDays int                 `json:"deliveryDays"`
	ValidUntil   *time.Time          `json:"validUntil,omitempty"`
	Notes        string              `json:"notes,omitempty"`
	Status       string              `json:"status"`
	SubmittedAt  time.Time           `json:"submittedAt"`
	Items        []QuoteItemResponse `json:"items"`
}

func FromQuoteView(v *queries.QuoteView) *QuoteResponse {
	items := make([]QuoteItemResponse, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, QuoteItemResponse{
			ID:           it.ID,
			RfqItemID:    it.RfqItemID,
			MaterialKey:  it.MaterialKey,
			MaterialName: it.MaterialName,
			UnitPriceUSD: it.UnitPriceUSD,
			UnitPriceZWG: it.UnitPriceZWG,
			AvailableQty: it.AvailableQty,
			Notes:        it.Notes,
		})
	}
	return &QuoteResponse{
		ID:           v.ID,
		RfqID:        v.RfqID,
		SupplierID:   v.SupplierID,
		SupplierName: v.SupplierName,
		TierLabel:    v.TierLabel,
		Rating:       v.Rating,
		TotalUSD:     v.TotalUSD,
		TotalZWG:     v.TotalZWG,
		DeliveryDays: v.DeliveryDays,
		ValidUntil:   v.ValidUntil,
		Notes:        v.Notes,
		Status:       v.Status,
		SubmittedAt:  v.SubmittedAt,
		Items:        items,
	}
}

func FromQuoteViews(views []queries.QuoteView) []QuoteResponse {
	out := make([]QuoteResponse, 0, len(views))
	for i := range views {
		out = append(out, *FromQuoteView(&views[i]))
	}
	return out
}
