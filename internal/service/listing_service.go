package service

import (
	"context"
	"time"

	"catalog-service/internal/models"
	"catalog-service/internal/util"

	"go.uber.org/zap"
)

// ListingService is the storefront read facade. Text queries go to the
// search backend first and fall back to the relational reader when it
// is down; callers never see which path answered.
type ListingService struct {
	reader ListingReader
	search SearchBackend
	logger *zap.Logger
}

// NewListingService creates a new listing read facade
func NewListingService(reader ListingReader, search SearchBackend) *ListingService {
	return &ListingService{
		reader: reader,
		search: search,
		logger: util.GetLogger(),
	}
}

// GetPage returns one page of the listing grid.
func (s *ListingService) GetPage(ctx context.Context, page, limit int) (models.PageResult, error) {
	start := time.Now()
	defer func() {
		util.SearchLatency.WithLabelValues("page").Observe(time.Since(start).Seconds())
	}()
	return s.reader.ListingPage(ctx, normalizePage(page), normalizeLimit(limit))
}

// GetBySlug returns the full product page projection.
func (s *ListingService) GetBySlug(ctx context.Context, slug string) (*models.ListingDetail, error) {
	return s.reader.ListingBySlug(ctx, slug)
}

// Search runs a full-text query, search engine first.
func (s *ListingService) Search(ctx context.Context, query string, page, limit int) (models.PageResult, error) {
	ctx, span := util.StartSpan(ctx, "ListingService.Search")
	defer span.End()

	page = normalizePage(page)
	limit = normalizeLimit(limit)

	result, err := s.search.Search(ctx, query, page, limit)
	if err == nil {
		return result, nil
	}

	s.logger.Warn("Search backend unavailable, falling back to database",
		zap.String("query", query), zap.Error(err))
	util.SearchFallbacksTotal.WithLabelValues("search").Inc()

	return s.reader.SearchListings(ctx, query, page, limit)
}

// Autocomplete suggests listing names by prefix, search engine first.
func (s *ListingService) Autocomplete(ctx context.Context, prefix string, limit int) ([]string, error) {
	limit = normalizeLimit(limit)

	names, err := s.search.Autocomplete(ctx, prefix, limit)
	if err == nil {
		return names, nil
	}

	s.logger.Warn("Autocomplete backend unavailable, falling back to database",
		zap.String("prefix", prefix), zap.Error(err))
	util.SearchFallbacksTotal.WithLabelValues("autocomplete").Inc()

	return s.reader.AutocompleteNames(ctx, prefix, limit)
}

// Home returns the storefront home page rails.
func (s *ListingService) Home(ctx context.Context, limit int) (models.HomeCollections, error) {
	limit = normalizeLimit(limit)

	featured, err := s.reader.FeaturedListings(ctx, limit)
	if err != nil {
		return models.HomeCollections{}, err
	}
	topSelling, err := s.reader.TopSellingListings(ctx, limit)
	if err != nil {
		return models.HomeCollections{}, err
	}
	return models.HomeCollections{Featured: featured, TopSelling: topSelling}, nil
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizeLimit(limit int) int {
	if limit < 1 {
		return 20
	}
	if limit > 100 {
		return 100
	}
	return limit
}
