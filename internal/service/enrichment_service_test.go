package service

import (
	"context"
	"fmt"
	"testing"

	"catalog-service/internal/domain"
	"catalog-service/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEnrichmentStore struct {
	variant *domain.ColorVariant
	saved   int
}

func (f *fakeEnrichmentStore) VariantBySlug(_ context.Context, slug string) (*domain.ColorVariant, error) {
	if f.variant == nil {
		return nil, fmt.Errorf("variant %s: %w", slug, domain.ErrNotFound)
	}
	return f.variant, nil
}

func (f *fakeEnrichmentStore) SaveVariantEnrichment(_ context.Context, variant *domain.ColorVariant) error {
	f.variant = variant
	f.saved++
	return nil
}

func (f *fakeEnrichmentStore) ListingDocumentBySlug(_ context.Context, slug string) (*models.ListingDocument, error) {
	return &models.ListingDocument{
		Slug:           f.variant.Slug(),
		WebDescription: f.variant.WebDescription(),
		Images:         f.variant.Images(),
		TopSelling:     f.variant.TopSelling(),
	}, nil
}

func enrichmentFixture(t *testing.T) *fakeEnrichmentStore {
	t.Helper()
	variant := domain.RestoreColorVariant(domain.ColorVariantSnapshot{
		ID:         1,
		TemplateID: 1,
		ColorKey:   "red",
		Slug:       "tpl-1-red",
	})
	return &fakeEnrichmentStore{variant: variant}
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestUpdateListingAppliesEnrichment(t *testing.T) {
	store := enrichmentFixture(t)
	publisher := &fakePublisher{}
	svc := NewEnrichmentService(store, publisher)

	err := svc.UpdateListing(context.Background(), "tpl-1-red", &UpdateListingRequest{
		WebDescription: strPtr("Soft cotton, true red."),
		TopSelling:     boolPtr(true),
	})
	require.NoError(t, err)

	assert.Equal(t, "Soft cotton, true red.", store.variant.WebDescription())
	assert.True(t, store.variant.TopSelling())
	assert.Equal(t, 1, store.saved)

	require.Len(t, publisher.indexed, 1)
	assert.Equal(t, "Soft cotton, true red.", publisher.indexed[0].WebDescription)
}

func TestUpdateListingRejectsLockedName(t *testing.T) {
	store := enrichmentFixture(t)
	svc := NewEnrichmentService(store, &fakePublisher{})

	err := svc.UpdateListing(context.Background(), "tpl-1-red", &UpdateListingRequest{
		Name:           strPtr("Renamed Tee"),
		WebDescription: strPtr("still fine"),
	})

	var lockErr *domain.LockViolationError
	require.ErrorAs(t, err, &lockErr)
	assert.Equal(t, "name", lockErr.Field)
	assert.Equal(t, 0, store.saved, "a lock violation must fail the whole request")
}

func TestUpdateListingRejectsLockedPrice(t *testing.T) {
	store := enrichmentFixture(t)
	svc := NewEnrichmentService(store, &fakePublisher{})

	price := decimal.NewFromInt(10)
	err := svc.UpdateListing(context.Background(), "tpl-1-red", &UpdateListingRequest{
		Price: &price,
	})

	var lockErr *domain.LockViolationError
	require.ErrorAs(t, err, &lockErr)
	assert.Equal(t, "price", lockErr.Field)
}

func TestAddAndRemoveImage(t *testing.T) {
	store := enrichmentFixture(t)
	publisher := &fakePublisher{}
	svc := NewEnrichmentService(store, publisher)

	require.NoError(t, svc.AddImage(context.Background(), "tpl-1-red", "https://cdn.example.com/1.jpg"))
	assert.Equal(t, []string{"https://cdn.example.com/1.jpg"}, store.variant.Images())

	err := svc.AddImage(context.Background(), "tpl-1-red", "https://cdn.example.com/1.jpg")
	assert.ErrorIs(t, err, domain.ErrInvalidPayload, "duplicate image")

	require.NoError(t, svc.RemoveImage(context.Background(), "tpl-1-red", "https://cdn.example.com/1.jpg"))
	assert.Empty(t, store.variant.Images())

	err = svc.RemoveImage(context.Background(), "tpl-1-red", "https://cdn.example.com/1.jpg")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Len(t, publisher.indexed, 2, "one reindex per successful write")
}
