package service

import (
	"context"
	"fmt"
	"testing"

	"catalog-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeListingReader struct {
	page    models.PageResult
	detail  *models.ListingDetail
	results models.PageResult
	names   []string
	rails   []models.ListingSummary
}

func (f *fakeListingReader) ListingPage(_ context.Context, page, limit int) (models.PageResult, error) {
	result := f.page
	result.Page = page
	return result, nil
}

func (f *fakeListingReader) ListingBySlug(_ context.Context, slug string) (*models.ListingDetail, error) {
	return f.detail, nil
}

func (f *fakeListingReader) SearchListings(_ context.Context, query string, page, limit int) (models.PageResult, error) {
	return f.results, nil
}

func (f *fakeListingReader) AutocompleteNames(_ context.Context, prefix string, limit int) ([]string, error) {
	return f.names, nil
}

func (f *fakeListingReader) FeaturedListings(_ context.Context, limit int) ([]models.ListingSummary, error) {
	return f.rails, nil
}

func (f *fakeListingReader) TopSellingListings(_ context.Context, limit int) ([]models.ListingSummary, error) {
	return f.rails, nil
}

type fakeSearchBackend struct {
	results models.PageResult
	names   []string
	err     error
	queries int
}

func (f *fakeSearchBackend) Index(_ context.Context, _ models.ListingDocument) error { return f.err }
func (f *fakeSearchBackend) Delete(_ context.Context, _ string) error                { return f.err }

func (f *fakeSearchBackend) Search(_ context.Context, _ string, page, _ int) (models.PageResult, error) {
	f.queries++
	if f.err != nil {
		return models.PageResult{}, f.err
	}
	result := f.results
	result.Page = page
	return result, nil
}

func (f *fakeSearchBackend) Autocomplete(_ context.Context, _ string, _ int) ([]string, error) {
	f.queries++
	if f.err != nil {
		return nil, f.err
	}
	return f.names, nil
}

func TestSearchUsesSearchBackendFirst(t *testing.T) {
	engine := &fakeSearchBackend{results: models.PageResult{
		Items: []models.ListingSummary{{Slug: "tpl-1-red"}},
		Total: 1,
	}}
	reader := &fakeListingReader{results: models.PageResult{
		Items: []models.ListingSummary{{Slug: "from-sql"}},
	}}
	svc := NewListingService(reader, engine)

	result, err := svc.Search(context.Background(), "tee", 1, 20)
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, "tpl-1-red", result.Items[0].Slug)
	assert.Equal(t, 1, engine.queries)
}

func TestSearchFallsBackWhenBackendDown(t *testing.T) {
	engine := &fakeSearchBackend{err: fmt.Errorf("connection refused")}
	reader := &fakeListingReader{results: models.PageResult{
		Items: []models.ListingSummary{{Slug: "from-sql"}},
		Total: 1,
	}}
	svc := NewListingService(reader, engine)

	result, err := svc.Search(context.Background(), "tee", 1, 20)
	require.NoError(t, err, "a search backend outage must stay invisible to the caller")
	require.Len(t, result.Items, 1)
	assert.Equal(t, "from-sql", result.Items[0].Slug)
}

func TestAutocompleteFallsBackWhenBackendDown(t *testing.T) {
	engine := &fakeSearchBackend{err: fmt.Errorf("connection refused")}
	reader := &fakeListingReader{names: []string{"Classic Tee"}}
	svc := NewListingService(reader, engine)

	names, err := svc.Autocomplete(context.Background(), "cla", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Classic Tee"}, names)
}

func TestGetPageNormalizesPaging(t *testing.T) {
	reader := &fakeListingReader{page: models.PageResult{Total: 42}}
	svc := NewListingService(reader, &fakeSearchBackend{})

	result, err := svc.GetPage(context.Background(), 0, -5)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
}

func TestHomeCollections(t *testing.T) {
	reader := &fakeListingReader{rails: []models.ListingSummary{{Slug: "tpl-1-red"}}}
	svc := NewListingService(reader, &fakeSearchBackend{})

	collections, err := svc.Home(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, collections.Featured, 1)
	assert.Len(t, collections.TopSelling, 1)
}
