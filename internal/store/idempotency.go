package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"catalog-service/internal/models"
)

// FindIdempotencyRecord retrieves the processed record for one
// (key, event type) pair. Returns nil when the pair is unseen.
func (s *Store) FindIdempotencyRecord(ctx context.Context, key, eventType string) (*models.IdempotencyRecord, error) {
	var rec models.IdempotencyRecord
	err := s.db.GetContext(ctx, &rec,
		"SELECT * FROM erp_sync_idempotency WHERE idempotency_key = $1 AND event_type = $2",
		key, eventType)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	return &rec, nil
}

// RecordIdempotency marks one (key, event type) pair as processed with
// the response status that was returned. Conflicts are ignored: under
// concurrent duplicate delivery the first writer wins.
func (s *Store) RecordIdempotency(ctx context.Context, key, eventType string, responseStatus int) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO erp_sync_idempotency (idempotency_key, event_type, response_status)
		VALUES ($1, $2, $3)
		ON CONFLICT (idempotency_key, event_type) DO NOTHING`,
		key, eventType, responseStatus)
	if err != nil {
		return fmt.Errorf("failed to record idempotency key: %w", err)
	}
	return nil
}

// LogSyncEvent appends one audit row per sync attempt.
func (s *Store) LogSyncEvent(ctx context.Context, subject string, success bool, errorMessage string) error {
	msg := sql.NullString{}
	if errorMessage != "" {
		msg = sql.NullString{String: errorMessage, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO erp_sync_log (subject, success, error_message) VALUES ($1, $2, $3)",
		subject, success, msg)
	if err != nil {
		return fmt.Errorf("failed to write sync log: %w", err)
	}
	return nil
}
