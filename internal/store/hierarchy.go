package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"catalog-service/internal/domain"
	"catalog-service/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// hierarchyTx implements HierarchyTx on one open transaction.
type hierarchyTx struct {
	tx *sqlx.Tx
}

// FindTemplateByCode looks up a template by its ERP natural key.
// Returns nil when absent. FOR UPDATE serializes concurrent syncs of
// the same template code.
func (h *hierarchyTx) FindTemplateByCode(ctx context.Context, templateCode string) (*domain.Template, error) {
	var row models.TemplateRow
	err := h.tx.GetContext(ctx, &row,
		"SELECT * FROM products WHERE template_code = $1 FOR UPDATE", templateCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find template %s: %w", templateCode, err)
	}

	return domain.RestoreTemplate(domain.TemplateSnapshot{
		ID:           row.ID,
		TemplateCode: row.TemplateCode,
		Name:         row.Name,
	}), nil
}

// SaveTemplate upserts keyed by the presence of an internal id.
func (h *hierarchyTx) SaveTemplate(ctx context.Context, template *domain.Template) (*domain.Template, error) {
	snap := template.Snapshot()

	if snap.ID == 0 {
		err := h.tx.GetContext(ctx, &snap.ID,
			"INSERT INTO products (template_code, name) VALUES ($1, $2) RETURNING id",
			snap.TemplateCode, snap.Name)
		if err != nil {
			return nil, fmt.Errorf("failed to insert template %s: %w", snap.TemplateCode, err)
		}
		return domain.RestoreTemplate(snap), nil
	}

	res, err := h.tx.ExecContext(ctx,
		"UPDATE products SET name = $1, updated_at = NOW() WHERE id = $2",
		snap.Name, snap.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update template %d: %w", snap.ID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, fmt.Errorf("template %d: %w", snap.ID, domain.ErrNotFound)
	}
	return domain.RestoreTemplate(snap), nil
}

// FindVariantByTemplateAndColor looks up a variant by its natural key.
// Returns nil when absent.
func (h *hierarchyTx) FindVariantByTemplateAndColor(ctx context.Context, templateID int64, colorKey string) (*domain.ColorVariant, error) {
	var row models.VariantRow
	err := h.tx.GetContext(ctx, &row,
		"SELECT * FROM color_variants WHERE template_id = $1 AND color_key = $2 FOR UPDATE",
		templateID, colorKey)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find variant %d/%s: %w", templateID, colorKey, err)
	}
	return variantFromRow(row), nil
}

// SaveVariant upserts keyed by the presence of an internal id.
//
// The update statement deliberately excludes the enrichment columns
// (web_description, images, top_selling, featured): they are owned by
// the content team and a sync must leave them verbatim. The slug is
// written only while still empty.
func (h *hierarchyTx) SaveVariant(ctx context.Context, variant *domain.ColorVariant) (*domain.ColorVariant, error) {
	snap := variant.Snapshot()

	if snap.ID == 0 {
		err := h.tx.GetContext(ctx, &snap.ID, `
			INSERT INTO color_variants
				(template_id, color_key, slug, web_description, images, top_selling, featured, last_sync_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`,
			snap.TemplateID, snap.ColorKey, snap.Slug, snap.WebDescription,
			pq.StringArray(snap.Images), snap.TopSelling, snap.Featured, nullTime(snap.LastSyncAt))
		if err != nil {
			return nil, fmt.Errorf("failed to insert variant %d/%s: %w", snap.TemplateID, snap.ColorKey, err)
		}
		return domain.RestoreColorVariant(snap), nil
	}

	res, err := h.tx.ExecContext(ctx, `
		UPDATE color_variants
		SET slug = CASE WHEN slug = '' THEN $1 ELSE slug END,
		    last_sync_at = $2,
		    updated_at = NOW()
		WHERE id = $3`,
		snap.Slug, nullTime(snap.LastSyncAt), snap.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update variant %d: %w", snap.ID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, fmt.Errorf("variant %d: %w", snap.ID, domain.ErrNotFound)
	}
	return domain.RestoreColorVariant(snap), nil
}

// FindSkuByItemCode looks up a SKU by its globally unique ERP item code.
// Returns nil when absent.
func (h *hierarchyTx) FindSkuByItemCode(ctx context.Context, erpItemCode string) (*domain.Sku, error) {
	var row models.SkuRow
	err := h.tx.GetContext(ctx, &row,
		"SELECT * FROM skus WHERE erp_item_code = $1 FOR UPDATE", erpItemCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find sku %s: %w", erpItemCode, err)
	}
	return skuFromRow(row)
}

// SaveSku upserts keyed by the presence of an internal id. All ERP
// columns are written unconditionally: last write wins.
func (h *hierarchyTx) SaveSku(ctx context.Context, sku *domain.Sku) (*domain.Sku, error) {
	snap := sku.Snapshot()

	if snap.ID == 0 {
		err := h.tx.GetContext(ctx, &snap.ID, `
			INSERT INTO skus
				(variant_id, erp_item_code, size_label, stock_quantity, price, sale_price, sale_ends_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id`,
			snap.VariantID, snap.ErpItemCode, snap.SizeLabel, snap.StockQuantity,
			nullMoney(snap.Price), nullMoney(snap.SalePrice), nullTimePtr(snap.SaleEndsAt))
		if err != nil {
			return nil, fmt.Errorf("failed to insert sku %s: %w", snap.ErpItemCode, err)
		}
		return domain.RestoreSku(snap), nil
	}

	res, err := h.tx.ExecContext(ctx, `
		UPDATE skus
		SET size_label = $1,
		    stock_quantity = $2,
		    price = $3,
		    sale_price = $4,
		    sale_ends_at = $5,
		    updated_at = NOW()
		WHERE id = $6`,
		snap.SizeLabel, snap.StockQuantity,
		nullMoney(snap.Price), nullMoney(snap.SalePrice), nullTimePtr(snap.SaleEndsAt), snap.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update sku %d: %w", snap.ID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return nil, fmt.Errorf("sku %d: %w", snap.ID, domain.ErrNotFound)
	}
	return domain.RestoreSku(snap), nil
}

// FindSkusByVariant loads every SKU under one variant. Used after the
// tier merge to aggregate prices and stock for the index document.
func (h *hierarchyTx) FindSkusByVariant(ctx context.Context, variantID int64) ([]*domain.Sku, error) {
	var rows []models.SkuRow
	err := h.tx.SelectContext(ctx, &rows,
		"SELECT * FROM skus WHERE variant_id = $1 ORDER BY id", variantID)
	if err != nil {
		return nil, fmt.Errorf("failed to load skus for variant %d: %w", variantID, err)
	}

	skus := make([]*domain.Sku, 0, len(rows))
	for _, row := range rows {
		sku, err := skuFromRow(row)
		if err != nil {
			return nil, err
		}
		skus = append(skus, sku)
	}
	return skus, nil
}

// ---- row <-> domain mapping ----

func variantFromRow(row models.VariantRow) *domain.ColorVariant {
	var lastSync time.Time
	if row.LastSyncAt.Valid {
		lastSync = row.LastSyncAt.Time
	}
	return domain.RestoreColorVariant(domain.ColorVariantSnapshot{
		ID:             row.ID,
		TemplateID:     row.TemplateID,
		ColorKey:       row.ColorKey,
		Slug:           row.Slug,
		WebDescription: row.WebDescription,
		Images:         row.Images,
		TopSelling:     row.TopSelling,
		Featured:       row.Featured,
		LastSyncAt:     lastSync,
	})
}

func skuFromRow(row models.SkuRow) (*domain.Sku, error) {
	price, err := moneyFromNull(row.Price)
	if err != nil {
		return nil, fmt.Errorf("sku %s has invalid price: %w", row.ErpItemCode, err)
	}
	salePrice, err := moneyFromNull(row.SalePrice)
	if err != nil {
		return nil, fmt.Errorf("sku %s has invalid sale price: %w", row.ErpItemCode, err)
	}

	var saleEndsAt *time.Time
	if row.SaleEndsAt.Valid {
		t := row.SaleEndsAt.Time
		saleEndsAt = &t
	}

	return domain.RestoreSku(domain.SkuSnapshot{
		ID:            row.ID,
		VariantID:     row.VariantID,
		ErpItemCode:   row.ErpItemCode,
		SizeLabel:     row.SizeLabel,
		StockQuantity: row.StockQuantity,
		Price:         price,
		SalePrice:     salePrice,
		SaleEndsAt:    saleEndsAt,
	}), nil
}

func moneyFromNull(d decimal.NullDecimal) (*domain.Money, error) {
	if !d.Valid {
		return nil, nil
	}
	m, err := domain.NewMoney(d.Decimal)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func nullMoney(m *domain.Money) decimal.NullDecimal {
	if m == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: m.Amount(), Valid: true}
}

func nullTime(t time.Time) sql.NullTime {
	if t.IsZero() {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t, Valid: true}
}

func nullTimePtr(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
