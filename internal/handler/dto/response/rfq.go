package response

import (
	"time"

	"buildquote/internal/usecase/commands"
	"buildquote/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRfqResponse struct {
	RfqID        uuid.UUID   `json:"rfqId"`
	ItemIDs      []uuid.UUID `json:"itemIds"`
	RecipientIDs []uuid.UUID `json:"recipientIds"`
	ExpiresAt    time.Time   `json:"expiresAt"`
}

func FromCreateRfqResult(r *commands.CreateRfqResult) *CreateRfqResponse {
	return &CreateRfqResponse{
		RfqID:        r.RfqID,
		ItemIDs:      r.ItemIDs,
		RecipientIDs: r.RecipientIDs,
		ExpiresAt:    r.ExpiresAt,
	}
}

type RfqItemResponse struct {
	ID             uuid.UUID       `json:"id"`
	MaterialKey    string          `json:"materialKey"`
	MaterialName   string          `json:"materialName"`
	Quantity       decimal.Decimal `json:"quantity"`
	Unit           string          `json:"unit"`
	Specifications string          `json:"specifications,omitempty"`
}

type RecipientResponse struct {
	ID            uuid.UUID  `json:"id"`
	SupplierID    uuid.UUID  `json:"supplierId"`
	SupplierName  string     `json:"supplierName"`
	Status        string     `json:"status"`
	NotifiedAt    time.Time  `json:"notifiedAt"`
	FirstViewedAt *time.Time `json:"firstViewedAt,omitempty"`
}

type RfqResponse struct {
	ID                   uuid.UUID           `json:"id"`
	ProjectID            uuid.UUID           `json:"projectId"`
	RequesterID          uuid.UUID           `json:"requesterId"`
	DeliveryAddress      string              `json:"deliveryAddress"`
	DeliveryInstructions string              `json:"deliveryInstructions,omitempty"`
	RequiredBy           *time.Time          `json:"requiredBy,omitempty"`
	Notes                string              `json:"notes,omitempty"`
	Status               string              `json:"status"`
	CreatedAt            time.Time           `json:"createdAt"`
	ExpiresAt            time.Time           `json:"expiresAt"`
	Items                []RfqItemResponse   `json:"items"`
	Recipients           []RecipientResponse `json:"recipients"`
}

func FromRfqView(v *queries.RfqView) *RfqResponse {
	items := make([]RfqItemResponse, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, RfqItemResponse{
			ID:             it.ID,
			MaterialKey:    it.MaterialKey,
			MaterialName:   it.MaterialName,
			Quantity:       it.Quantity,
			Unit:           it.Unit,
			Specifications: it.Specifications,
		})
	}
	recipients := make([]RecipientResponse, 0, len(v.Recipients))
	for _, rec := range v.Recipients {
		recipients = append(recipients, RecipientResponse{
			ID:            rec.ID,
			SupplierID:    rec.SupplierID,
			SupplierName:  rec.SupplierName,
			Status:        rec.Status,
			NotifiedAt:    rec.NotifiedAt,
			FirstViewedAt: rec.FirstViewedAt,
		})
	}
	return &RfqResponse{
		ID:                   v.ID,
		ProjectID:            v.ProjectID,
		RequesterID:          v.RequesterID,
		DeliveryAddress:      v.DeliveryAddress,
		DeliveryInstructions: v.DeliveryInstructions,
		RequiredBy:           v.RequiredBy,
		Notes:                v.Notes,
		Status:               v.Status,
		CreatedAt:            v.CreatedAt,
		ExpiresAt:            v.ExpiresAt,
		Items:                items,
		Recipients:           recipients,
	}
}

type RfqSummaryResponse struct {
	ID              uuid.UUID `json:"id"`
	ProjectID       uuid.UUID `json:"projectId"`
	DeliveryAddress string    `json:"deliveryAddress"`
	Status          string    `json:"status"`
	ItemCount       int       `json:"itemCount"`
	QuoteCount      int       `json:"quoteCount"`
	CreatedAt       time.Time `json:"createdAt"`
	ExpiresAt       time.Time `json:"expiresAt"`
}

func FromRfqSummaries(views []queries.RfqSummaryView) []RfqSummaryResponse {
	out := make([]RfqSummaryResponse, 0, len(views))
	for _, v := range views {
		out = append(out, RfqSummaryResponse{
			ID:              v.ID,
			ProjectID:       v.ProjectID,
			DeliveryAddress: v.DeliveryAddress,
			Status:          v.Status,
			ItemCount:       v.ItemCount,
			QuoteCount:      v.QuoteCount,
			CreatedAt:       v.CreatedAt,
			ExpiresAt:       v.ExpiresAt,
		})
	}
	return out
}
