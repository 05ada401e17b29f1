package models

import "time"

// Event types on the index topic.
const (
	EventTypeListingIndex  = "LISTING_INDEX"
	EventTypeListingDelete = "LISTING_DELETE"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// ListingDocument is the denormalized search index document for one
// color variant. priceStart/priceEnd are the min/max effective price
// across the variant's SKUs; totalStock sums stock with missing
// quantities treated as zero.
type ListingDocument struct {
	VariantID      int64     `json:"variant_id"`
	Slug           string    `json:"slug"`
	Name           string    `json:"name"`
	ColorKey       string    `json:"color_key"`
	WebDescription string    `json:"web_description,omitempty"`
	Images         []string  `json:"images"`
	PriceStart     *float64  `json:"price_start,omitempty"`
	PriceEnd       *float64  `json:"price_end,omitempty"`
	TotalStock     int       `json:"total_stock"`
	TopSelling     bool      `json:"top_selling"`
	LastSyncAt     time.Time `json:"last_sync_at"`
}

// ListingIndexEvent asks the index worker to upsert one document.
type ListingIndexEvent struct {
	BaseEvent
	Document ListingDocument `json:"document"`
}

// ListingDeleteEvent asks the index worker to drop one document.
type ListingDeleteEvent struct {
	BaseEvent
	Slug string `json:"slug"`
}
