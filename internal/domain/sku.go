package domain

import (
	"fmt"
	"time"
)

// Sku is the purchasable leaf of the hierarchy: one ERP item with a
// size label, stock and pricing.
//
// stockQuantity, price, salePrice and saleEndsAt are ERP-locked and
// always overwritten on sync via UpdateFromERP. There is no merge logic
// at this tier.
type Sku struct {
	id          int64
	variantID   int64
	erpItemCode string

	sizeLabel     string
	stockQuantity int
	price         *Money
	salePrice     *Money
	saleEndsAt    *time.Time
}

// SkuSnapshot is the persistence view of a Sku.
type SkuSnapshot struct {
	ID            int64
	VariantID     int64
	ErpItemCode   string
	SizeLabel     string
	StockQuantity int
	Price         *Money
	SalePrice     *Money
	SaleEndsAt    *time.Time
}

// NewSku creates an unsaved skeleton linked to a variant. Stock and
// prices are populated by the first ERP merge.
func NewSku(variantID int64, erpItemCode, sizeLabel string) (*Sku, error) {
	if erpItemCode == "" {
		return nil, fmt.Errorf("%w: erpItemCode must not be blank", ErrInvalidPayload)
	}
	return &Sku{variantID: variantID, erpItemCode: erpItemCode, sizeLabel: sizeLabel}, nil
}

// RestoreSku rehydrates a persisted Sku.
func RestoreSku(snap SkuSnapshot) *Sku {
	return &Sku{
		id:            snap.ID,
		variantID:     snap.VariantID,
		erpItemCode:   snap.ErpItemCode,
		sizeLabel:     snap.SizeLabel,
		stockQuantity: snap.StockQuantity,
		price:         snap.Price,
		salePrice:     snap.SalePrice,
		saleEndsAt:    snap.SaleEndsAt,
	}
}

// UpdateFromERP overwrites all ERP-locked fields unconditionally.
// This is the single authorised write path for stock and pricing.
func (s *Sku) UpdateFromERP(stockQuantity int, price Money, salePrice *Money, saleEndsAt *time.Time) error {
	if stockQuantity < 0 {
		return fmt.Errorf("%w: stockQuantity cannot be negative: %d", ErrInvalidPayload, stockQuantity)
	}
	s.stockQuantity = stockQuantity
	s.price = &price
	s.salePrice = salePrice
	s.saleEndsAt = saleEndsAt
	return nil
}

// UpdateSizeLabel applies a changed label from ERP.
func (s *Sku) UpdateSizeLabel(sizeLabel string) {
	s.sizeLabel = sizeLabel
}

// OnSale reports whether the sale price applies at the given instant:
// a sale price must be present, lower than the list price, and not expired.
func (s *Sku) OnSale(now time.Time) bool {
	if s.salePrice == nil || s.price == nil {
		return false
	}
	if s.saleEndsAt != nil && now.After(*s.saleEndsAt) {
		return false
	}
	return s.salePrice.LessThan(*s.price)
}

// EffectivePrice is the price a customer pays at the given instant:
// the sale price while the sale is live, the list price otherwise.
// Nil when the SKU has never been priced by ERP.
func (s *Sku) EffectivePrice(now time.Time) *Money {
	if s.OnSale(now) {
		return s.salePrice
	}
	return s.price
}

func (s *Sku) ID() int64              { return s.id }
func (s *Sku) VariantID() int64       { return s.variantID }
func (s *Sku) ErpItemCode() string    { return s.erpItemCode }
func (s *Sku) SizeLabel() string      { return s.sizeLabel }
func (s *Sku) StockQuantity() int     { return s.stockQuantity }
func (s *Sku) Price() *Money          { return s.price }
func (s *Sku) SalePrice() *Money      { return s.salePrice }
func (s *Sku) SaleEndsAt() *time.Time { return s.saleEndsAt }

func (s *Sku) Snapshot() SkuSnapshot {
	return SkuSnapshot{
		ID:            s.id,
		VariantID:     s.variantID,
		ErpItemCode:   s.erpItemCode,
		SizeLabel:     s.sizeLabel,
		StockQuantity: s.stockQuantity,
		Price:         s.price,
		SalePrice:     s.salePrice,
		SaleEndsAt:    s.saleEndsAt,
	}
}
