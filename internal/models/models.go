package models

import (
	"database/sql"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// TemplateRow is the products table row for a hierarchy root.
type TemplateRow struct {
	ID           int64     `db:"id"`
	TemplateCode string    `db:"template_code"`
	Name         string    `db:"name"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// VariantRow is one color variant row. Enrichment columns are owned by
// the content team and are excluded from the sync update statement.
type VariantRow struct {
	ID             int64          `db:"id"`
	TemplateID     int64          `db:"template_id"`
	ColorKey       string         `db:"color_key"`
	Slug           string         `db:"slug"`
	WebDescription string         `db:"web_description"`
	Images         pq.StringArray `db:"images"`
	TopSelling     bool           `db:"top_selling"`
	Featured       bool           `db:"featured"`
	LastSyncAt     sql.NullTime   `db:"last_sync_at"`
	CreatedAt      time.Time      `db:"created_at"`
	UpdatedAt      time.Time      `db:"updated_at"`
}

// SkuRow is one purchasable size row.
type SkuRow struct {
	ID            int64               `db:"id"`
	VariantID     int64               `db:"variant_id"`
	ErpItemCode   string              `db:"erp_item_code"`
	SizeLabel     string              `db:"size_label"`
	StockQuantity int                 `db:"stock_quantity"`
	Price         decimal.NullDecimal `db:"price"`
	SalePrice     decimal.NullDecimal `db:"sale_price"`
	SaleEndsAt    sql.NullTime        `db:"sale_ends_at"`
	CreatedAt     time.Time           `db:"created_at"`
	UpdatedAt     time.Time           `db:"updated_at"`
}

// CategoryRow is one category tree node.
type CategoryRow struct {
	ID        int64         `db:"id"`
	Name      string        `db:"name"`
	Slug      string        `db:"slug"`
	ParentID  sql.NullInt64 `db:"parent_id"`
	CreatedAt time.Time     `db:"created_at"`
}

// IdempotencyRecord is one processed (key, event type) pair.
type IdempotencyRecord struct {
	ID             int64     `db:"id"`
	IdempotencyKey string    `db:"idempotency_key"`
	EventType      string    `db:"event_type"`
	ResponseStatus int       `db:"response_status"`
	ProcessedAt    time.Time `db:"processed_at"`
}

// SyncLogRow is one audit row per sync attempt.
type SyncLogRow struct {
	ID           int64          `db:"id"`
	Subject      string         `db:"subject"`
	Success      bool           `db:"success"`
	ErrorMessage sql.NullString `db:"error_message"`
	CreatedAt    time.Time      `db:"created_at"`
}

// UserRow is one storefront customer synced from ERP.
type UserRow struct {
	ID            int64          `db:"id"`
	Phone         string         `db:"phone"`
	Name          string         `db:"name"`
	Email         sql.NullString `db:"email"`
	Enabled       bool           `db:"enabled"`
	LoyaltyPoints int            `db:"loyalty_points"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

// Sync event types recorded in the idempotency ledger.
const (
	EventTypeProduct  = "PRODUCT"
	EventTypeCategory = "CATEGORY"
	EventTypeUser     = "USER"
)

// ListingSummary is the storefront grid projection of a variant.
type ListingSummary struct {
	ID             int64            `json:"id"`
	Slug           string           `json:"slug"`
	Name           string           `json:"name"`
	ColorKey       string           `json:"color_key"`
	WebDescription string           `json:"web_description,omitempty"`
	Images         []string         `json:"images"`
	PriceStart     *decimal.Decimal `json:"price_start,omitempty"`
	PriceEnd       *decimal.Decimal `json:"price_end,omitempty"`
	TotalStock     int              `json:"total_stock"`
	TopSelling     bool             `json:"top_selling"`
	Featured       bool             `json:"featured"`
}

// SkuView is one size row on the product detail page.
type SkuView struct {
	ErpItemCode   string           `json:"erp_item_code"`
	SizeLabel     string           `json:"size_label"`
	StockQuantity int              `json:"stock_quantity"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	SalePrice     *decimal.Decimal `json:"sale_price,omitempty"`
	SaleEndsAt    *time.Time       `json:"sale_ends_at,omitempty"`
	OnSale        bool             `json:"on_sale"`
}

// SiblingVariant links the other colors of the same template.
type SiblingVariant struct {
	Slug      string `json:"slug"`
	ColorKey  string `json:"color_key"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// ListingDetail is the full product page projection.
type ListingDetail struct {
	ListingSummary
	Skus     []SkuView        `json:"skus"`
	Siblings []SiblingVariant `json:"siblings"`
}

// PageResult is a paginated set of listing summaries.
type PageResult struct {
	Items   []ListingSummary `json:"items"`
	Total   int64            `json:"total"`
	Page    int              `json:"page"`
	HasMore bool             `json:"has_more"`
}

// CategoryView is the API projection of a category node.
type CategoryView struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID *int64 `json:"parent_id,omitempty"`
}

// SyncResult summarizes a batch sync: per-item failures are counted,
// never fatal to the batch.
type SyncResult struct {
	Synced int `json:"synced"`
	Errors int `json:"errors"`
}

// HomeCollections carries the storefront home page rails.
type HomeCollections struct {
	Featured   []ListingSummary `json:"featured"`
	TopSelling []ListingSummary `json:"top_selling"`
}
