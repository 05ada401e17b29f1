package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-service/internal/models"
)

// FindAllCategories returns every category node, roots first.
func (s *Store) FindAllCategories(ctx context.Context) ([]models.CategoryRow, error) {
	var rows []models.CategoryRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT * FROM categories ORDER BY parent_id NULLS FIRST, id")
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}
	return rows, nil
}

// FindCategoryByName retrieves a category by its unique name.
// Returns nil when absent.
func (s *Store) FindCategoryByName(ctx context.Context, name string) (*models.CategoryRow, error) {
	var row models.CategoryRow
	err := s.db.GetContext(ctx, &row, "SELECT * FROM categories WHERE name = $1", name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find category %s: %w", name, err)
	}
	return &row, nil
}

// SaveCategory inserts a new category node. Categories are immutable
// once created; ON CONFLICT guards the create race on the unique name.
func (s *Store) SaveCategory(ctx context.Context, name, slug string, parentID *int64) (models.CategoryRow, error) {
	parent := sql.NullInt64{}
	if parentID != nil {
		parent = sql.NullInt64{Int64: *parentID, Valid: true}
	}

	var row models.CategoryRow
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO categories (name, slug, parent_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING *`,
		name, slug, parent)
	if err != nil {
		return models.CategoryRow{}, fmt.Errorf("failed to save category %s: %w", name, err)
	}
	return row, nil
}
