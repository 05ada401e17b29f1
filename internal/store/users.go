package store

import (
	"context"
	"database/sql"
	"fmt"

	"catalog-service/internal/models"
)

// UpsertUserByPhone syncs one customer keyed by normalized phone
// number. All columns come from the ERP, so last write wins.
func (s *Store) UpsertUserByPhone(ctx context.Context, phone, name, email string, enabled bool, loyaltyPoints int) (models.UserRow, error) {
	mail := sql.NullString{}
	if email != "" {
		mail = sql.NullString{String: email, Valid: true}
	}

	var row models.UserRow
	err := s.db.GetContext(ctx, &row, `
		INSERT INTO users (phone, name, email, enabled, loyalty_points)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (phone) DO UPDATE
		SET name = EXCLUDED.name,
		    email = EXCLUDED.email,
		    enabled = EXCLUDED.enabled,
		    loyalty_points = EXCLUDED.loyalty_points,
		    updated_at = NOW()
		RETURNING *`,
		phone, name, mail, enabled, loyaltyPoints)
	if err != nil {
		return models.UserRow{}, fmt.Errorf("failed to upsert user %s: %w", phone, err)
	}
	return row, nil
}
