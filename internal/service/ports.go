package service

import (
	"context"
	"time"

	"catalog-service/internal/domain"
	"catalog-service/internal/models"
	"catalog-service/internal/store"
)

// HierarchyStore opens the transaction boundary for one template tree.
type HierarchyStore interface {
	WithinTx(ctx context.Context, fn func(tx store.HierarchyTx) error) error
}

// VariantRemover deletes a discontinued variant and its SKUs.
type VariantRemover interface {
	DeleteVariantBySlug(ctx context.Context, slug string) error
}

// CategoryStore is the category tree persistence port.
type CategoryStore interface {
	FindAllCategories(ctx context.Context) ([]models.CategoryRow, error)
	SaveCategory(ctx context.Context, name, slug string, parentID *int64) (models.CategoryRow, error)
}

// ListingReader is the relational read path for the storefront facade.
type ListingReader interface {
	ListingPage(ctx context.Context, page, limit int) (models.PageResult, error)
	ListingBySlug(ctx context.Context, slug string) (*models.ListingDetail, error)
	SearchListings(ctx context.Context, query string, page, limit int) (models.PageResult, error)
	AutocompleteNames(ctx context.Context, prefix string, limit int) ([]string, error)
	FeaturedListings(ctx context.Context, limit int) ([]models.ListingSummary, error)
	TopSellingListings(ctx context.Context, limit int) ([]models.ListingSummary, error)
}

// EnrichmentStore is the content-team write path: it may touch only
// the enrichment columns.
type EnrichmentStore interface {
	VariantBySlug(ctx context.Context, slug string) (*domain.ColorVariant, error)
	SaveVariantEnrichment(ctx context.Context, variant *domain.ColorVariant) error
	ListingDocumentBySlug(ctx context.Context, slug string) (*models.ListingDocument, error)
}

// SearchBackend is the search engine port. Query failures surface to the
// facade, which falls back to the relational reader.
type SearchBackend interface {
	Index(ctx context.Context, doc models.ListingDocument) error
	Delete(ctx context.Context, slug string) error
	Search(ctx context.Context, query string, page, limit int) (models.PageResult, error)
	Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error)
}

// IndexPublisher feeds the asynchronous index pipeline.
type IndexPublisher interface {
	PublishListingIndex(ctx context.Context, doc models.ListingDocument) error
	PublishListingDelete(ctx context.Context, slug string) error
}

// UserStore is the customer sync persistence port.
type UserStore interface {
	UpsertUserByPhone(ctx context.Context, phone, name, email string, enabled bool, loyaltyPoints int) (models.UserRow, error)
}

// AuditLog records one row per sync attempt.
type AuditLog interface {
	LogSyncEvent(ctx context.Context, subject string, success bool, errorMessage string) error
}

// idempotencyKV is the TTL fast path of the dedup ledger.
type idempotencyKV interface {
	CheckIdempotencyKey(ctx context.Context, key, eventType string) (int, bool, error)
	SetIdempotencyKey(ctx context.Context, key, eventType string, responseStatus int, ttl time.Duration) error
}

// idempotencyStore is the durable half of the dedup ledger.
type idempotencyStore interface {
	FindIdempotencyRecord(ctx context.Context, key, eventType string) (*models.IdempotencyRecord, error)
	RecordIdempotency(ctx context.Context, key, eventType string, responseStatus int) error
}
