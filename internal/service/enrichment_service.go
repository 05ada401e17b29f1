package service

import (
	"context"

	"catalog-service/internal/domain"
	"catalog-service/internal/util"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// EnrichmentService is the content-team write path: descriptions,
// image galleries and merchandising flags. ERP-locked fields are
// rejected here outright.
type EnrichmentService struct {
	store     EnrichmentStore
	publisher IndexPublisher
	logger    *zap.Logger
}

// NewEnrichmentService creates a new enrichment service
func NewEnrichmentService(store EnrichmentStore, publisher IndexPublisher) *EnrichmentService {
	return &EnrichmentService{
		store:     store,
		publisher: publisher,
		logger:    util.GetLogger(),
	}
}

// UpdateListingRequest carries the content-team edits. Name and price
// are accepted in the payload only so the lock violation can be
// reported explicitly instead of silently dropped.
type UpdateListingRequest struct {
	WebDescription *string          `json:"web_description"`
	TopSelling     *bool            `json:"top_selling"`
	Featured       *bool            `json:"featured"`
	Name           *string          `json:"name"`
	Price          *decimal.Decimal `json:"price"`
}

// UpdateListing applies enrichment edits to one variant. Attempts to
// write ERP-locked fields fail the whole request with a
// LockViolationError before anything is persisted.
func (s *EnrichmentService) UpdateListing(ctx context.Context, slug string, req *UpdateListingRequest) error {
	ctx, span := util.StartSpan(ctx, "EnrichmentService.UpdateListing")
	defer span.End()

	if req.Name != nil {
		return &domain.LockViolationError{Field: "name", Owner: domain.FieldOwnerERP}
	}
	if req.Price != nil {
		return &domain.LockViolationError{Field: "price", Owner: domain.FieldOwnerERP}
	}

	variant, err := s.store.VariantBySlug(ctx, slug)
	if err != nil {
		return err
	}

	if req.WebDescription != nil {
		variant.UpdateWebDescription(*req.WebDescription)
	}
	if req.TopSelling != nil {
		variant.SetTopSelling(*req.TopSelling)
	}
	if req.Featured != nil {
		variant.SetFeatured(*req.Featured)
	}

	if err := s.store.SaveVariantEnrichment(ctx, variant); err != nil {
		return err
	}

	s.logger.Info("Listing enrichment updated", zap.String("slug", slug))
	s.republish(ctx, slug)
	return nil
}

// AddImage appends one gallery image and refreshes the index.
func (s *EnrichmentService) AddImage(ctx context.Context, slug, url string) error {
	variant, err := s.store.VariantBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := variant.AddImage(url); err != nil {
		return err
	}
	if err := s.store.SaveVariantEnrichment(ctx, variant); err != nil {
		return err
	}
	s.republish(ctx, slug)
	return nil
}

// RemoveImage drops one gallery image and refreshes the index.
func (s *EnrichmentService) RemoveImage(ctx context.Context, slug, url string) error {
	variant, err := s.store.VariantBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := variant.RemoveImage(url); err != nil {
		return err
	}
	if err := s.store.SaveVariantEnrichment(ctx, variant); err != nil {
		return err
	}
	s.republish(ctx, slug)
	return nil
}

// republish pushes the refreshed document onto the index feed.
// Failures are logged only: the reindex sweep will catch up.
func (s *EnrichmentService) republish(ctx context.Context, slug string) {
	doc, err := s.store.ListingDocumentBySlug(ctx, slug)
	if err != nil {
		s.logger.Error("Failed to project listing for reindex",
			zap.String("slug", slug), zap.Error(err))
		return
	}
	if err := s.publisher.PublishListingIndex(ctx, *doc); err != nil {
		s.logger.Error("Failed to publish index event",
			zap.String("slug", slug), zap.Error(err))
	}
}
