package service

import (
	"context"

	"catalog-service/internal/domain"
	"catalog-service/internal/models"
	"catalog-service/internal/util"

	"go.uber.org/zap"
)

// CategoryService syncs the ERP category tree and serves the flat
// category listing.
type CategoryService struct {
	store  CategoryStore
	logger *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(store CategoryStore) *CategoryService {
	return &CategoryService{store: store, logger: util.GetLogger()}
}

// SyncCategoryRequest is one tree node from the ERP, linked to its
// parent by name.
type SyncCategoryRequest struct {
	Name       string `json:"name" binding:"required"`
	ParentName string `json:"parent_name"`
}

// SyncCategories reconciles a category batch. The existing tree is
// prefetched once; parents resolve against it first, then against
// nodes created earlier in the same batch, so a parent may arrive in
// the same payload as its child as long as it comes first.
//
// A child whose parent resolves nowhere is demoted to a root with a
// warning rather than rejected: a later delivery of the parent cannot
// retroactively unblock this one.
func (s *CategoryService) SyncCategories(ctx context.Context, reqs []SyncCategoryRequest) ([]models.CategoryView, error) {
	ctx, span := util.StartSpan(ctx, "CategoryService.SyncCategories")
	defer span.End()

	existing, err := s.store.FindAllCategories(ctx)
	if err != nil {
		return nil, err
	}

	byName := make(map[string]models.CategoryRow, len(existing)+len(reqs))
	for _, row := range existing {
		byName[row.Name] = row
	}

	views := make([]models.CategoryView, 0, len(reqs))
	for _, req := range reqs {
		// Existing nodes are immutable: a redelivery returns the
		// stored row without re-resolving the parent.
		if row, ok := byName[req.Name]; ok {
			views = append(views, categoryView(row))
			continue
		}

		var parentID *int64
		if req.ParentName != "" {
			parent, ok := byName[req.ParentName]
			if ok {
				id := parent.ID
				parentID = &id
			} else {
				s.logger.Warn("Category parent not found, storing as root",
					zap.String("category", req.Name),
					zap.String("parent", req.ParentName))
				util.CategoryOrphansTotal.Inc()
			}
		}

		row, err := s.store.SaveCategory(ctx, req.Name, domain.Slugify(req.Name), parentID)
		if err != nil {
			return nil, err
		}

		byName[row.Name] = row
		util.CategoriesSyncedTotal.Inc()
		views = append(views, categoryView(row))
	}

	return views, nil
}

// ListCategories returns the full flat tree.
func (s *CategoryService) ListCategories(ctx context.Context) ([]models.CategoryView, error) {
	rows, err := s.store.FindAllCategories(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]models.CategoryView, 0, len(rows))
	for _, row := range rows {
		views = append(views, categoryView(row))
	}
	return views, nil
}

func categoryView(row models.CategoryRow) models.CategoryView {
	view := models.CategoryView{ID: row.ID, Name: row.Name, Slug: row.Slug}
	if row.ParentID.Valid {
		id := row.ParentID.Int64
		view.ParentID = &id
	}
	return view
}
