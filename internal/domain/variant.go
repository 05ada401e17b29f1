package domain

import (
	"fmt"
	"time"
)

// MaxVariantImages caps the image gallery per variant.
const MaxVariantImages = 20

// ColorVariant is one color of a Template, the unit shown on the
// storefront listing grid.
//
// webDescription, images, topSelling and featured are enrichment fields
// owned by the content team. ERP sync never writes them: the sync path
// only touches the slug (once) and the lastSyncAt stamp.
type ColorVariant struct {
	id         int64
	templateID int64
	colorKey   string
	slug       string

	webDescription string
	images         []string
	topSelling     bool
	featured       bool

	lastSyncAt time.Time
}

// ColorVariantSnapshot is the persistence view of a ColorVariant.
type ColorVariantSnapshot struct {
	ID             int64
	TemplateID     int64
	ColorKey       string
	Slug           string
	WebDescription string
	Images         []string
	TopSelling     bool
	Featured       bool
	LastSyncAt     time.Time
}

// NewColorVariant creates an unsaved skeleton with empty enrichment.
func NewColorVariant(templateID int64, colorKey string) (*ColorVariant, error) {
	if colorKey == "" {
		return nil, fmt.Errorf("%w: colorKey must not be blank", ErrInvalidPayload)
	}
	return &ColorVariant{templateID: templateID, colorKey: colorKey}, nil
}

// RestoreColorVariant rehydrates a persisted ColorVariant.
func RestoreColorVariant(snap ColorVariantSnapshot) *ColorVariant {
	images := make([]string, len(snap.Images))
	copy(images, snap.Images)
	return &ColorVariant{
		id:             snap.ID,
		templateID:     snap.TemplateID,
		colorKey:       snap.ColorKey,
		slug:           snap.Slug,
		webDescription: snap.WebDescription,
		images:         images,
		topSelling:     snap.TopSelling,
		featured:       snap.Featured,
		lastSyncAt:     snap.LastSyncAt,
	}
}

// GenerateSlug derives the URL slug from the template code and color key.
// No-op when the slug is already set: slugs never change once published.
func (v *ColorVariant) GenerateSlug(templateCode string) {
	if v.slug != "" {
		return
	}
	v.slug = Slugify(templateCode + "-" + v.colorKey)
}

// MarkSynced stamps the sync clock. Called on every successful ERP sync;
// never touches enrichment.
func (v *ColorVariant) MarkSynced(now time.Time) {
	v.lastSyncAt = now.UTC()
}

// UpdateWebDescription is a content-team write path.
func (v *ColorVariant) UpdateWebDescription(description string) {
	v.webDescription = description
}

func (v *ColorVariant) SetTopSelling(topSelling bool) {
	v.topSelling = topSelling
}

func (v *ColorVariant) SetFeatured(featured bool) {
	v.featured = featured
}

// AddImage appends an image URL. Blank URLs, duplicates and galleries
// beyond MaxVariantImages are rejected.
func (v *ColorVariant) AddImage(url string) error {
	if url == "" {
		return fmt.Errorf("%w: image url must not be blank", ErrInvalidPayload)
	}
	for _, existing := range v.images {
		if existing == url {
			return fmt.Errorf("%w: image already present: %s", ErrInvalidPayload, url)
		}
	}
	if len(v.images) >= MaxVariantImages {
		return fmt.Errorf("%w: variant already has %d images", ErrInvalidPayload, MaxVariantImages)
	}
	v.images = append(v.images, url)
	return nil
}

// RemoveImage deletes an image URL from the gallery.
func (v *ColorVariant) RemoveImage(url string) error {
	for i, existing := range v.images {
		if existing == url {
			v.images = append(v.images[:i], v.images[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("image not found on variant: %s: %w", url, ErrNotFound)
}

// HasEnrichment reports whether the content team has populated anything.
func (v *ColorVariant) HasEnrichment() bool {
	return v.webDescription != "" || len(v.images) > 0
}

func (v *ColorVariant) ID() int64              { return v.id }
func (v *ColorVariant) TemplateID() int64      { return v.templateID }
func (v *ColorVariant) ColorKey() string       { return v.colorKey }
func (v *ColorVariant) Slug() string           { return v.slug }
func (v *ColorVariant) WebDescription() string { return v.webDescription }
func (v *ColorVariant) TopSelling() bool       { return v.topSelling }
func (v *ColorVariant) Featured() bool         { return v.featured }
func (v *ColorVariant) LastSyncAt() time.Time  { return v.lastSyncAt }

func (v *ColorVariant) Images() []string {
	images := make([]string, len(v.images))
	copy(images, v.images)
	return images
}

func (v *ColorVariant) Snapshot() ColorVariantSnapshot {
	return ColorVariantSnapshot{
		ID:             v.id,
		TemplateID:     v.templateID,
		ColorKey:       v.colorKey,
		Slug:           v.slug,
		WebDescription: v.webDescription,
		Images:         v.Images(),
		TopSelling:     v.topSelling,
		Featured:       v.featured,
		LastSyncAt:     v.lastSyncAt,
	}
}
