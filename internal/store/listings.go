package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"catalog-service/internal/domain"
	"catalog-service/internal/models"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// gridRow is the aggregated projection used by the listing grid and the
// SQL search fallback. Effective price per SKU is the sale price while
// the sale is live, the list price otherwise.
type gridRow struct {
	ID             int64               `db:"id"`
	Slug           string              `db:"slug"`
	Name           string              `db:"name"`
	ColorKey       string              `db:"color_key"`
	WebDescription string              `db:"web_description"`
	Images         pq.StringArray      `db:"images"`
	TopSelling     bool                `db:"top_selling"`
	Featured       bool                `db:"featured"`
	LastSyncAt     sql.NullTime        `db:"last_sync_at"`
	PriceStart     decimal.NullDecimal `db:"price_start"`
	PriceEnd       decimal.NullDecimal `db:"price_end"`
	TotalStock     int                 `db:"total_stock"`
}

const gridSelect = `
	SELECT v.id, v.slug, p.name, v.color_key, v.web_description, v.images,
	       v.top_selling, v.featured, v.last_sync_at,
	       MIN(CASE WHEN s.sale_price IS NOT NULL AND s.sale_price < s.price
	                     AND (s.sale_ends_at IS NULL OR s.sale_ends_at > NOW())
	                THEN s.sale_price ELSE s.price END) AS price_start,
	       MAX(CASE WHEN s.sale_price IS NOT NULL AND s.sale_price < s.price
	                     AND (s.sale_ends_at IS NULL OR s.sale_ends_at > NOW())
	                THEN s.sale_price ELSE s.price END) AS price_end,
	       COALESCE(SUM(s.stock_quantity), 0) AS total_stock
	FROM color_variants v
	JOIN products p ON p.id = v.template_id
	LEFT JOIN skus s ON s.variant_id = v.id`

const gridGroupBy = ` GROUP BY v.id, p.name`

// ListingPage returns one page of the listing grid, newest first.
func (s *Store) ListingPage(ctx context.Context, page, limit int) (models.PageResult, error) {
	var total int64
	if err := s.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM color_variants"); err != nil {
		return models.PageResult{}, fmt.Errorf("failed to count listings: %w", err)
	}

	var rows []gridRow
	query := gridSelect + gridGroupBy + " ORDER BY v.id DESC LIMIT $1 OFFSET $2"
	if err := s.db.SelectContext(ctx, &rows, query, limit, (page-1)*limit); err != nil {
		return models.PageResult{}, fmt.Errorf("failed to load listing page: %w", err)
	}

	return pageResult(rows, total, page, limit), nil
}

// SearchListings is the relational fallback for full-text search:
// substring match on name, description and color.
func (s *Store) SearchListings(ctx context.Context, query string, page, limit int) (models.PageResult, error) {
	pattern := "%" + query + "%"
	where := " WHERE (p.name ILIKE $1 OR v.web_description ILIKE $1 OR v.color_key ILIKE $1)"

	var total int64
	countQuery := `
		SELECT COUNT(*)
		FROM color_variants v
		JOIN products p ON p.id = v.template_id` + where
	if err := s.db.GetContext(ctx, &total, countQuery, pattern); err != nil {
		return models.PageResult{}, fmt.Errorf("failed to count search results: %w", err)
	}

	var rows []gridRow
	listQuery := gridSelect + where + gridGroupBy + " ORDER BY v.id DESC LIMIT $2 OFFSET $3"
	if err := s.db.SelectContext(ctx, &rows, listQuery, pattern, limit, (page-1)*limit); err != nil {
		return models.PageResult{}, fmt.Errorf("failed to search listings: %w", err)
	}

	return pageResult(rows, total, page, limit), nil
}

// AutocompleteNames is the relational fallback for autocomplete:
// distinct template names by prefix.
func (s *Store) AutocompleteNames(ctx context.Context, prefix string, limit int) ([]string, error) {
	var names []string
	err := s.db.SelectContext(ctx, &names, `
		SELECT DISTINCT p.name
		FROM products p
		JOIN color_variants v ON v.template_id = p.id
		WHERE p.name ILIKE $1
		ORDER BY p.name
		LIMIT $2`,
		prefix+"%", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to autocomplete names: %w", err)
	}
	return names, nil
}

// ListingBySlug loads the full product page projection for one variant.
func (s *Store) ListingBySlug(ctx context.Context, slug string) (*models.ListingDetail, error) {
	var row gridRow
	query := gridSelect + " WHERE v.slug = $1" + gridGroupBy
	err := s.db.GetContext(ctx, &row, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("listing %s: %w", slug, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load listing %s: %w", slug, err)
	}

	var skuRows []models.SkuRow
	if err := s.db.SelectContext(ctx, &skuRows,
		"SELECT * FROM skus WHERE variant_id = $1 ORDER BY id", row.ID); err != nil {
		return nil, fmt.Errorf("failed to load skus for %s: %w", slug, err)
	}

	now := time.Now()
	skus := make([]models.SkuView, 0, len(skuRows))
	for _, sr := range skuRows {
		sku, err := skuFromRow(sr)
		if err != nil {
			return nil, err
		}
		view := models.SkuView{
			ErpItemCode:   sku.ErpItemCode(),
			SizeLabel:     sku.SizeLabel(),
			StockQuantity: sku.StockQuantity(),
			OnSale:        sku.OnSale(now),
		}
		if p := sku.Price(); p != nil {
			amount := p.Amount()
			view.Price = &amount
		}
		if p := sku.SalePrice(); p != nil {
			amount := p.Amount()
			view.SalePrice = &amount
		}
		view.SaleEndsAt = sku.SaleEndsAt()
		skus = append(skus, view)
	}

	type siblingRow struct {
		Slug     string         `db:"slug"`
		ColorKey string         `db:"color_key"`
		Images   pq.StringArray `db:"images"`
	}
	var sibRows []siblingRow
	err = s.db.SelectContext(ctx, &sibRows, `
		SELECT o.slug, o.color_key, o.images
		FROM color_variants o
		JOIN color_variants v ON v.template_id = o.template_id
		WHERE v.slug = $1 AND o.id <> v.id
		ORDER BY o.id`, slug)
	if err != nil {
		return nil, fmt.Errorf("failed to load siblings for %s: %w", slug, err)
	}

	siblings := make([]models.SiblingVariant, 0, len(sibRows))
	for _, sr := range sibRows {
		sib := models.SiblingVariant{Slug: sr.Slug, ColorKey: sr.ColorKey}
		if len(sr.Images) > 0 {
			sib.Thumbnail = sr.Images[0]
		}
		siblings = append(siblings, sib)
	}

	return &models.ListingDetail{
		ListingSummary: summaryFromGrid(row),
		Skus:           skus,
		Siblings:       siblings,
	}, nil
}

// FeaturedListings returns the home page featured rail.
func (s *Store) FeaturedListings(ctx context.Context, limit int) ([]models.ListingSummary, error) {
	return s.flaggedListings(ctx, "v.featured", limit)
}

// TopSellingListings returns the home page top-selling rail.
func (s *Store) TopSellingListings(ctx context.Context, limit int) ([]models.ListingSummary, error) {
	return s.flaggedListings(ctx, "v.top_selling", limit)
}

func (s *Store) flaggedListings(ctx context.Context, flagColumn string, limit int) ([]models.ListingSummary, error) {
	var rows []gridRow
	query := gridSelect + " WHERE " + flagColumn + gridGroupBy + " ORDER BY v.id DESC LIMIT $1"
	if err := s.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("failed to load %s listings: %w", flagColumn, err)
	}

	items := make([]models.ListingSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, summaryFromGrid(row))
	}
	return items, nil
}

// AllListingDocuments projects every variant into its search document.
// Used by the full-reindex sweep.
func (s *Store) AllListingDocuments(ctx context.Context) ([]models.ListingDocument, error) {
	var rows []gridRow
	query := gridSelect + gridGroupBy + " ORDER BY v.id"
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("failed to load listing documents: %w", err)
	}

	docs := make([]models.ListingDocument, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, documentFromGrid(row))
	}
	return docs, nil
}

// ListingDocumentBySlug projects one variant into its search document.
// Used to refresh the index after a content-team enrichment write.
func (s *Store) ListingDocumentBySlug(ctx context.Context, slug string) (*models.ListingDocument, error) {
	var row gridRow
	query := gridSelect + " WHERE v.slug = $1" + gridGroupBy
	err := s.db.GetContext(ctx, &row, query, slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("listing %s: %w", slug, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to project listing %s: %w", slug, err)
	}
	doc := documentFromGrid(row)
	return &doc, nil
}

// VariantBySlug loads a variant aggregate for the content write path.
func (s *Store) VariantBySlug(ctx context.Context, slug string) (*domain.ColorVariant, error) {
	var row models.VariantRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM color_variants WHERE slug = $1", slug)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("variant %s: %w", slug, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load variant %s: %w", slug, err)
	}
	return variantFromRow(row), nil
}

// DeleteVariantBySlug removes a variant and its SKUs when the ERP
// discontinues it.
func (s *Store) DeleteVariantBySlug(ctx context.Context, slug string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM color_variants WHERE slug = $1", slug)
	if err != nil {
		return fmt.Errorf("failed to delete variant %s: %w", slug, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("variant %s: %w", slug, domain.ErrNotFound)
	}
	return nil
}

// SaveVariantEnrichment writes the content-owned columns only. This is
// the single statement allowed to touch enrichment; the sync update in
// SaveVariant never includes these columns.
func (s *Store) SaveVariantEnrichment(ctx context.Context, variant *domain.ColorVariant) error {
	snap := variant.Snapshot()
	res, err := s.db.ExecContext(ctx, `
		UPDATE color_variants
		SET web_description = $1,
		    images = $2,
		    top_selling = $3,
		    featured = $4,
		    updated_at = NOW()
		WHERE id = $5`,
		snap.WebDescription, pq.StringArray(snap.Images), snap.TopSelling, snap.Featured, snap.ID)
	if err != nil {
		return fmt.Errorf("failed to save enrichment for variant %d: %w", snap.ID, err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		return fmt.Errorf("variant %d: %w", snap.ID, domain.ErrNotFound)
	}
	return nil
}

// ---- projection helpers ----

func summaryFromGrid(row gridRow) models.ListingSummary {
	summary := models.ListingSummary{
		ID:             row.ID,
		Slug:           row.Slug,
		Name:           row.Name,
		ColorKey:       row.ColorKey,
		WebDescription: row.WebDescription,
		Images:         row.Images,
		TotalStock:     row.TotalStock,
		TopSelling:     row.TopSelling,
		Featured:       row.Featured,
	}
	if summary.Images == nil {
		summary.Images = []string{}
	}
	if row.PriceStart.Valid {
		d := row.PriceStart.Decimal
		summary.PriceStart = &d
	}
	if row.PriceEnd.Valid {
		d := row.PriceEnd.Decimal
		summary.PriceEnd = &d
	}
	return summary
}

func documentFromGrid(row gridRow) models.ListingDocument {
	doc := models.ListingDocument{
		VariantID:      row.ID,
		Slug:           row.Slug,
		Name:           row.Name,
		ColorKey:       row.ColorKey,
		WebDescription: row.WebDescription,
		Images:         row.Images,
		TotalStock:     row.TotalStock,
		TopSelling:     row.TopSelling,
	}
	if doc.Images == nil {
		doc.Images = []string{}
	}
	if row.LastSyncAt.Valid {
		doc.LastSyncAt = row.LastSyncAt.Time
	}
	if row.PriceStart.Valid {
		f, _ := row.PriceStart.Decimal.Float64()
		doc.PriceStart = &f
	}
	if row.PriceEnd.Valid {
		f, _ := row.PriceEnd.Decimal.Float64()
		doc.PriceEnd = &f
	}
	return doc
}

func pageResult(rows []gridRow, total int64, page, limit int) models.PageResult {
	items := make([]models.ListingSummary, 0, len(rows))
	for _, row := range rows {
		items = append(items, summaryFromGrid(row))
	}
	return models.PageResult{
		Items:   items,
		Total:   total,
		Page:    page,
		HasMore: int64(page*limit) < total,
	}
}
