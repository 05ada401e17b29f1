package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(t *testing.T, amount float64) Money {
	t.Helper()
	m, err := NewMoney(decimal.NewFromFloat(amount))
	require.NoError(t, err)
	return m
}

func moneyRef(t *testing.T, amount float64) *Money {
	t.Helper()
	m := money(t, amount)
	return &m
}

func TestUpdateFromERPOverwritesEverything(t *testing.T) {
	sku, err := NewSku(3, "TPL-1-RED-S", "S")
	require.NoError(t, err)

	require.NoError(t, sku.UpdateFromERP(5, money(t, 19.99), nil, nil))
	assert.Equal(t, 5, sku.StockQuantity())

	ends := time.Now().Add(24 * time.Hour)
	require.NoError(t, sku.UpdateFromERP(50, money(t, 29.99), moneyRef(t, 24.99), &ends))

	assert.Equal(t, 50, sku.StockQuantity())
	assert.Equal(t, "29.99", sku.Price().String())
	assert.Equal(t, "24.99", sku.SalePrice().String())
	require.NotNil(t, sku.SaleEndsAt())
	assert.True(t, sku.SaleEndsAt().Equal(ends))
}

func TestUpdateFromERPRejectsNegativeStock(t *testing.T) {
	sku, err := NewSku(3, "TPL-1-RED-S", "S")
	require.NoError(t, err)

	err = sku.UpdateFromERP(-1, money(t, 10), nil, nil)
	assert.ErrorIs(t, err, ErrInvalidPayload)
}

func TestOnSale(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name       string
		salePrice  *Money
		saleEndsAt *time.Time
		want       bool
	}{
		{name: "sale price below list, open-ended", salePrice: moneyRef(t, 80), want: true},
		{name: "sale price below list, future end", salePrice: moneyRef(t, 80), saleEndsAt: &future, want: true},
		{name: "sale expired", salePrice: moneyRef(t, 80), saleEndsAt: &past, want: false},
		{name: "no sale price", salePrice: nil, want: false},
		{name: "sale price equals list", salePrice: moneyRef(t, 100), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sku, err := NewSku(1, "SKU-1", "M")
			require.NoError(t, err)
			require.NoError(t, sku.UpdateFromERP(10, money(t, 100), tt.salePrice, tt.saleEndsAt))
			assert.Equal(t, tt.want, sku.OnSale(now))
		})
	}
}

func TestEffectivePrice(t *testing.T) {
	now := time.Now()

	sku, err := NewSku(1, "SKU-1", "M")
	require.NoError(t, err)

	// Unpriced skeleton has no effective price.
	assert.Nil(t, sku.EffectivePrice(now))

	require.NoError(t, sku.UpdateFromERP(10, money(t, 100), moneyRef(t, 80), nil))
	assert.Equal(t, "80", sku.EffectivePrice(now).String())

	past := now.Add(-time.Minute)
	require.NoError(t, sku.UpdateFromERP(10, money(t, 100), moneyRef(t, 80), &past))
	assert.Equal(t, "100", sku.EffectivePrice(now).String())
}
