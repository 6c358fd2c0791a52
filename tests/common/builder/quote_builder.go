//go:build unit || e2e

package builder

import (
	"time"

	"buildquote/internal/domain/quote"
	"buildquote/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type QuoteBuilder struct {
	RfqID        uuid.UUID
	SupplierID   uuid.UUID
	DeliveryDays int
	ValidUntil   time.Time
	Notes        string
	Specs        []quote.ItemSpec
	RequestedQty map[uuid.UUID]decimal.Decimal
	Now          time.Time
}

// NewQuoteBuilder seeds one priced line: 100 bags requested at USD 10.50,
// so the expected USD total is 1050.
func NewQuoteBuilder() *QuoteBuilder {
	rfqItemID := uuid.New()
	return &QuoteBuilder{
		RfqID:        uuid.New(),
		SupplierID:   uuid.New(),
		DeliveryDays: 5,
		ValidUntil:   FixedNow.AddDate(0, 0, 7),
		Notes:        "Price includes delivery",
		Specs: []quote.ItemSpec{
			{
				RfqItemID:    rfqItemID,
				UnitPriceUSD: decimal.RequireFromString("10.50"),
				UnitPriceZWG: decimal.RequireFromString("280.00"),
				AvailableQty: decimal.NewFromInt(100),
			},
		},
		RequestedQty: map[uuid.UUID]decimal.Decimal{
			rfqItemID: decimal.NewFromInt(100),
		},
		Now: FixedNow,
	}
}

func (b *QuoteBuilder) With(mutate func(*QuoteBuilder)) *QuoteBuilder {
	mutate(b)
	return b
}

// AddLine registers another RFQ item with its requested quantity and prices
// it, returning the generated item id for assertions.
func (b *QuoteBuilder) AddLine(requested, unitUSD, unitZWG decimal.Decimal) uuid.UUID {
	id := uuid.New()
	b.RequestedQty[id] = requested
	b.Specs = append(b.Specs, quote.ItemSpec{
		RfqItemID:    id,
		UnitPriceUSD: unitUSD,
		UnitPriceZWG: unitZWG,
		AvailableQty: requested,
	})
	return id
}

func (b *QuoteBuilder) BuildDomain() (*quote.Quote, error) {
	services := &quote.Services{Clock: clock.NewMockClock(b.Now)}
	return quote.NewQuote(services, b.RfqID, b.SupplierID,
		b.DeliveryDays, b.ValidUntil, b.Notes, b.Specs, b.RequestedQty)
}
