package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSlugIsStable(t *testing.T) {
	variant, err := NewColorVariant(1, "Deep Red")
	require.NoError(t, err)

	variant.GenerateSlug("TPL-001")
	assert.Equal(t, "tpl-001-deep-red", variant.Slug())

	// Second generation, even with a different code, must be a no-op.
	variant.GenerateSlug("TPL-RENAMED")
	assert.Equal(t, "tpl-001-deep-red", variant.Slug())
}

func TestMarkSyncedLeavesEnrichmentAlone(t *testing.T) {
	variant := RestoreColorVariant(ColorVariantSnapshot{
		ID:             7,
		TemplateID:     1,
		ColorKey:       "red",
		Slug:           "tpl-001-red",
		WebDescription: "A",
		Images:         []string{"x"},
		TopSelling:     true,
	})

	variant.MarkSynced(time.Now())

	assert.Equal(t, "A", variant.WebDescription())
	assert.Equal(t, []string{"x"}, variant.Images())
	assert.True(t, variant.TopSelling())
	assert.False(t, variant.LastSyncAt().IsZero())
}

func TestAddImageValidation(t *testing.T) {
	variant, err := NewColorVariant(1, "red")
	require.NoError(t, err)

	require.NoError(t, variant.AddImage("https://cdn/img-1.jpg"))

	err = variant.AddImage("")
	assert.ErrorIs(t, err, ErrInvalidPayload)

	err = variant.AddImage("https://cdn/img-1.jpg")
	assert.ErrorIs(t, err, ErrInvalidPayload)

	for i := 2; i <= MaxVariantImages; i++ {
		require.NoError(t, variant.AddImage(fmt.Sprintf("https://cdn/img-%d.jpg", i)))
	}
	err = variant.AddImage("https://cdn/one-too-many.jpg")
	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.Len(t, variant.Images(), MaxVariantImages)
}

func TestRemoveImage(t *testing.T) {
	variant, err := NewColorVariant(1, "red")
	require.NoError(t, err)
	require.NoError(t, variant.AddImage("a"))
	require.NoError(t, variant.AddImage("b"))

	require.NoError(t, variant.RemoveImage("a"))
	assert.Equal(t, []string{"b"}, variant.Images())

	err = variant.RemoveImage("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestImagesReturnsCopy(t *testing.T) {
	variant, err := NewColorVariant(1, "red")
	require.NoError(t, err)
	require.NoError(t, variant.AddImage("a"))

	images := variant.Images()
	images[0] = "tampered"
	assert.Equal(t, []string{"a"}, variant.Images())
}

func TestHasEnrichment(t *testing.T) {
	variant, err := NewColorVariant(1, "red")
	require.NoError(t, err)
	assert.False(t, variant.HasEnrichment())

	variant.UpdateWebDescription("soft cotton tee")
	assert.True(t, variant.HasEnrichment())
}
