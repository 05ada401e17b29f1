package store

import (
	"context"
	"fmt"
	"time"

	"catalog-service/internal/domain"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// HierarchyTx is the transaction-scoped storage port for hierarchy
// reconciliation. Lookups take row locks so concurrent syncs of the
// same natural key serialize instead of double-creating.
type HierarchyTx interface {
	FindTemplateByCode(ctx context.Context, templateCode string) (*domain.Template, error)
	SaveTemplate(ctx context.Context, template *domain.Template) (*domain.Template, error)
	FindVariantByTemplateAndColor(ctx context.Context, templateID int64, colorKey string) (*domain.ColorVariant, error)
	SaveVariant(ctx context.Context, variant *domain.ColorVariant) (*domain.ColorVariant, error)
	FindSkuByItemCode(ctx context.Context, erpItemCode string) (*domain.Sku, error)
	SaveSku(ctx context.Context, sku *domain.Sku) (*domain.Sku, error)
	FindSkusByVariant(ctx context.Context, variantID int64) ([]*domain.Sku, error)
}

// WithinTx runs fn inside one database transaction: all tier writes
// for one template tree commit or roll back together.
func (s *Store) WithinTx(ctx context.Context, fn func(tx HierarchyTx) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&hierarchyTx{tx: tx}); err != nil {
		return err
	}

	return tx.Commit()
}
