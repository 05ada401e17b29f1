package service

import (
	"context"
	"database/sql"
	"testing"

	"catalog-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCategoryStore mirrors the production conflict semantics: saving
// an existing name returns the stored row untouched.
type fakeCategoryStore struct {
	rows   []models.CategoryRow
	nextID int64
	saves  int
}

func (f *fakeCategoryStore) FindAllCategories(_ context.Context) ([]models.CategoryRow, error) {
	out := make([]models.CategoryRow, len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *fakeCategoryStore) SaveCategory(_ context.Context, name, slug string, parentID *int64) (models.CategoryRow, error) {
	f.saves++
	for _, row := range f.rows {
		if row.Name == name {
			return row, nil
		}
	}

	parent := sql.NullInt64{}
	if parentID != nil {
		parent = sql.NullInt64{Int64: *parentID, Valid: true}
	}
	f.nextID++
	row := models.CategoryRow{ID: f.nextID, Name: name, Slug: slug, ParentID: parent}
	f.rows = append(f.rows, row)
	return row, nil
}

func TestSyncCategoriesParentInSameBatch(t *testing.T) {
	store := &fakeCategoryStore{}
	svc := NewCategoryService(store)

	views, err := svc.SyncCategories(context.Background(), []SyncCategoryRequest{
		{Name: "Apparel"},
		{Name: "Shirts", ParentName: "Apparel"},
	})
	require.NoError(t, err)
	require.Len(t, views, 2)

	assert.Nil(t, views[0].ParentID)
	require.NotNil(t, views[1].ParentID)
	assert.Equal(t, views[0].ID, *views[1].ParentID)
	assert.Equal(t, "shirts", views[1].Slug)
}

func TestSyncCategoriesParentFromEarlierDelivery(t *testing.T) {
	store := &fakeCategoryStore{}
	svc := NewCategoryService(store)

	parents, err := svc.SyncCategories(context.Background(), []SyncCategoryRequest{{Name: "Apparel"}})
	require.NoError(t, err)

	views, err := svc.SyncCategories(context.Background(), []SyncCategoryRequest{
		{Name: "Trousers", ParentName: "Apparel"},
	})
	require.NoError(t, err)
	require.NotNil(t, views[0].ParentID)
	assert.Equal(t, parents[0].ID, *views[0].ParentID)
}

func TestSyncCategoriesOrphanBecomesRoot(t *testing.T) {
	store := &fakeCategoryStore{}
	svc := NewCategoryService(store)

	views, err := svc.SyncCategories(context.Background(), []SyncCategoryRequest{
		{Name: "Socks", ParentName: "Nonexistent"},
	})
	require.NoError(t, err, "an unknown parent must not reject the node")
	assert.Nil(t, views[0].ParentID)
}

func TestSyncCategoriesExistingNodeIsImmutable(t *testing.T) {
	store := &fakeCategoryStore{}
	svc := NewCategoryService(store)

	_, err := svc.SyncCategories(context.Background(), []SyncCategoryRequest{
		{Name: "Apparel"},
		{Name: "Shirts", ParentName: "Apparel"},
	})
	require.NoError(t, err)

	// Redelivery with a different parent keeps the original placement.
	views, err := svc.SyncCategories(context.Background(), []SyncCategoryRequest{
		{Name: "Shoes"},
		{Name: "Shirts", ParentName: "Shoes"},
	})
	require.NoError(t, err)
	require.NotNil(t, views[1].ParentID)
	assert.Equal(t, int64(1), *views[1].ParentID)
}

func TestSyncCategoriesReplayShortCircuitsExistingNodes(t *testing.T) {
	store := &fakeCategoryStore{}
	svc := NewCategoryService(store)

	_, err := svc.SyncCategories(context.Background(), []SyncCategoryRequest{
		{Name: "Socks", ParentName: "Nonexistent"},
	})
	require.NoError(t, err)
	require.Equal(t, 1, store.saves)

	// Redelivering the orphan returns the stored row without another
	// write, warning or orphan count.
	views, err := svc.SyncCategories(context.Background(), []SyncCategoryRequest{
		{Name: "Socks", ParentName: "Nonexistent"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, store.saves)
	require.Len(t, views, 1)
	assert.Equal(t, "Socks", views[0].Name)
}

func TestListCategories(t *testing.T) {
	store := &fakeCategoryStore{}
	svc := NewCategoryService(store)

	_, err := svc.SyncCategories(context.Background(), []SyncCategoryRequest{
		{Name: "Apparel"},
		{Name: "Shirts", ParentName: "Apparel"},
	})
	require.NoError(t, err)

	views, err := svc.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, views, 2)
}
