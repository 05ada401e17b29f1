package service

import (
	"context"
	"fmt"
	"time"

	"catalog-service/internal/util"

	"go.uber.org/zap"
)

// IdempotencyLedger deduplicates ERP deliveries by (key, event type)
// pair. Redis is the TTL fast path, Postgres the durable record: a
// cache miss falls through to the database and backfills the cache.
type IdempotencyLedger struct {
	kv     idempotencyKV
	store  idempotencyStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewIdempotencyLedger creates a new dedup ledger
func NewIdempotencyLedger(kv idempotencyKV, store idempotencyStore, ttl time.Duration) *IdempotencyLedger {
	return &IdempotencyLedger{
		kv:     kv,
		store:  store,
		ttl:    ttl,
		logger: util.GetLogger(),
	}
}

// Check returns the recorded response status for a previously processed
// pair, or seen=false on first delivery. Redis errors degrade to the
// database lookup instead of failing the request.
func (l *IdempotencyLedger) Check(ctx context.Context, key, eventType string) (responseStatus int, seen bool, err error) {
	status, found, err := l.kv.CheckIdempotencyKey(ctx, key, eventType)
	if err != nil {
		l.logger.Warn("Idempotency cache check failed, falling back to database",
			zap.String("event_type", eventType), zap.Error(err))
	} else if found {
		util.SyncDuplicatesTotal.WithLabelValues(eventType).Inc()
		return status, true, nil
	}

	rec, err := l.store.FindIdempotencyRecord(ctx, key, eventType)
	if err != nil {
		return 0, false, fmt.Errorf("failed to check idempotency ledger: %w", err)
	}
	if rec == nil {
		return 0, false, nil
	}

	util.SyncDuplicatesTotal.WithLabelValues(eventType).Inc()
	if err := l.kv.SetIdempotencyKey(ctx, key, eventType, rec.ResponseStatus, l.ttl); err != nil {
		l.logger.Warn("Failed to backfill idempotency cache", zap.Error(err))
	}
	return rec.ResponseStatus, true, nil
}

// Record marks a pair as processed. The database write is authoritative;
// a cache write failure only costs the fast path.
func (l *IdempotencyLedger) Record(ctx context.Context, key, eventType string, responseStatus int) error {
	if err := l.store.RecordIdempotency(ctx, key, eventType, responseStatus); err != nil {
		return err
	}
	if err := l.kv.SetIdempotencyKey(ctx, key, eventType, responseStatus, l.ttl); err != nil {
		l.logger.Warn("Failed to cache idempotency key", zap.Error(err))
	}
	return nil
}
