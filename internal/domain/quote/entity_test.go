//go:build unit

package quote_test

import (
	"testing"
	"time"

	"buildquote/internal/domain/quote"
	"buildquote/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCase struct {
	name   string
	mutate func(*builder.QuoteBuilder)
	errIs  error
}

func runCases(t *testing.T, cases []testCase) {
	t.Helper()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := builder.NewQuoteBuilder().With(tc.mutate)
			actual, err := b.BuildDomain()
			if tc.errIs != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.errIs)
				assert.Nil(t, actual)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, actual)
		})
	}
}

func TestNewQuote(t *testing.T) {
	t.Run("basic success case", func(t *testing.T) {
		b := builder.NewQuoteBuilder()
		actual, err := b.BuildDomain()
		require.NoError(t, err)
		require.NotNil(t, actual)

		assert.NotEqual(t, uuid.Nil, actual.ID())
		assert.Equal(t, b.RfqID, actual.RfqID())
		assert.Equal(t, b.SupplierID, actual.SupplierID())
		assert.Equal(t, quote.StatusSubmitted, actual.Status())
		assert.Equal(t, builder.FixedNow, actual.SubmittedAt())
		assert.Len(t, actual.Items(), 1)
	})

	t.Run("totals are unit price times requested quantity", func(t *testing.T) {
		// 100 bags at 10.50 USD / 280.00 ZWG per bag.
		actual, err := builder.NewQuoteBuilder().BuildDomain()
		require.NoError(t, err)

		assert.True(t, actual.TotalUSD().Equal(decimal.RequireFromString("1050.00")),
			"got %s", actual.TotalUSD())
		assert.True(t, actual.TotalZWG().Equal(decimal.RequireFromString("28000.00")),
			"got %s", actual.TotalZWG())
	})

	t.Run("totals sum across lines", func(t *testing.T) {
		b := builder.NewQuoteBuilder()
		b.AddLine(decimal.NewFromInt(10), decimal.RequireFromString("3.25"), decimal.Zero)
		actual, err := b.BuildDomain()
		require.NoError(t, err)

		// 1050 + 10*3.25
		assert.True(t, actual.TotalUSD().Equal(decimal.RequireFromString("1082.50")),
			"got %s", actual.TotalUSD())
	})

	t.Run("partial quotes are valid", func(t *testing.T) {
		// Two requested items, only one priced.
		b := builder.NewQuoteBuilder()
		b.RequestedQty[uuid.New()] = decimal.NewFromInt(50)
		actual, err := b.BuildDomain()
		require.NoError(t, err)
		assert.Len(t, actual.Items(), 1)
	})

	t.Run("line validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "empty item list",
				mutate: func(b *builder.QuoteBuilder) { b.Specs = nil },
				errIs:  quote.ErrNoItems,
			},
			{
				name: "line references an item outside the rfq",
				mutate: func(b *builder.QuoteBuilder) {
					b.Specs[0].RfqItemID = uuid.New()
				},
				errIs: quote.ErrUnknownRfqItem,
			},
			{
				name: "same item priced twice",
				mutate: func(b *builder.QuoteBuilder) {
					b.Specs = append(b.Specs, b.Specs[0])
				},
				errIs: quote.ErrDuplicateQuoteItem,
			},
			{
				name: "zero usd unit price",
				mutate: func(b *builder.QuoteBuilder) {
					b.Specs[0].UnitPriceUSD = decimal.Zero
				},
				errIs: quote.ErrInvalidUnitPrice,
			},
			{
				name: "negative zwg unit price",
				mutate: func(b *builder.QuoteBuilder) {
					b.Specs[0].UnitPriceZWG = decimal.NewFromInt(-1)
				},
				errIs: quote.ErrInvalidUnitPrice,
			},
			{
				name: "zero zwg unit price is valid",
				mutate: func(b *builder.QuoteBuilder) {
					b.Specs[0].UnitPriceZWG = decimal.Zero
				},
			},
			{
				name: "zero available quantity",
				mutate: func(b *builder.QuoteBuilder) {
					b.Specs[0].AvailableQty = decimal.Zero
				},
				errIs: quote.ErrInvalidAvailableQty,
			},
		})
	})

	t.Run("terms validation", func(t *testing.T) {
		runCases(t, []testCase{
			{
				name:   "zero delivery days",
				mutate: func(b *builder.QuoteBuilder) { b.DeliveryDays = 0 },
				errIs:  quote.ErrInvalidDeliveryDays,
			},
			{
				name:   "negative delivery days",
				mutate: func(b *builder.QuoteBuilder) { b.DeliveryDays = -3 },
				errIs:  quote.ErrInvalidDeliveryDays,
			},
			{
				name: "valid-until in the past",
				mutate: func(b *builder.QuoteBuilder) {
					b.ValidUntil = b.Now.Add(-time.Hour)
				},
				errIs: quote.ErrValidUntilPast,
			},
			{
				name:   "valid-until omitted is valid",
				mutate: func(b *builder.QuoteBuilder) { b.ValidUntil = time.Time{} },
			},
		})
	})
}

func TestQuoteLapse(t *testing.T) {
	b := builder.NewQuoteBuilder()
	q, err := b.BuildDomain()
	require.NoError(t, err)

	assert.False(t, q.HasLapsed(b.ValidUntil))
	assert.True(t, q.HasLapsed(b.ValidUntil.Add(time.Second)))

	t.Run("open-ended quote never lapses", func(t *testing.T) {
		open, err := builder.NewQuoteBuilder().
			With(func(b *builder.QuoteBuilder) { b.ValidUntil = time.Time{} }).
			BuildDomain()
		require.NoError(t, err)
		assert.False(t, open.HasLapsed(builder.FixedNow.AddDate(10, 0, 0)))
	})
}

func TestQuoteStatus(t *testing.T) {
	assert.False(t, quote.StatusSubmitted.IsTerminal())
	for _, s := range []quote.Status{quote.StatusAccepted, quote.StatusRejected, quote.StatusExpired} {
		assert.True(t, s.IsTerminal(), "%s", s)
	}
}
