package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"catalog-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeKV struct {
	entries map[string]int
	err     error
}

func newFakeKV() *fakeKV {
	return &fakeKV{entries: make(map[string]int)}
}

func (f *fakeKV) CheckIdempotencyKey(_ context.Context, key, eventType string) (int, bool, error) {
	if f.err != nil {
		return 0, false, f.err
	}
	status, ok := f.entries[eventType+":"+key]
	return status, ok, nil
}

func (f *fakeKV) SetIdempotencyKey(_ context.Context, key, eventType string, responseStatus int, _ time.Duration) error {
	if f.err != nil {
		return f.err
	}
	f.entries[eventType+":"+key] = responseStatus
	return nil
}

type fakeLedgerStore struct {
	records map[string]*models.IdempotencyRecord
}

func newFakeLedgerStore() *fakeLedgerStore {
	return &fakeLedgerStore{records: make(map[string]*models.IdempotencyRecord)}
}

func (f *fakeLedgerStore) FindIdempotencyRecord(_ context.Context, key, eventType string) (*models.IdempotencyRecord, error) {
	return f.records[eventType+":"+key], nil
}

func (f *fakeLedgerStore) RecordIdempotency(_ context.Context, key, eventType string, responseStatus int) error {
	if _, ok := f.records[eventType+":"+key]; ok {
		return nil // first writer wins
	}
	f.records[eventType+":"+key] = &models.IdempotencyRecord{
		IdempotencyKey: key,
		EventType:      eventType,
		ResponseStatus: responseStatus,
	}
	return nil
}

func TestLedgerFirstDeliveryIsUnseen(t *testing.T) {
	ledger := NewIdempotencyLedger(newFakeKV(), newFakeLedgerStore(), time.Hour)

	_, seen, err := ledger.Check(context.Background(), "evt-1", models.EventTypeProduct)
	require.NoError(t, err)
	assert.False(t, seen)
}

func TestLedgerRecordThenCheck(t *testing.T) {
	kv := newFakeKV()
	store := newFakeLedgerStore()
	ledger := NewIdempotencyLedger(kv, store, time.Hour)

	require.NoError(t, ledger.Record(context.Background(), "evt-1", models.EventTypeProduct, 200))

	status, seen, err := ledger.Check(context.Background(), "evt-1", models.EventTypeProduct)
	require.NoError(t, err)
	assert.True(t, seen)
	assert.Equal(t, 200, status)
}

func TestLedgerSameKeyDifferentEventType(t *testing.T) {
	ledger := NewIdempotencyLedger(newFakeKV(), newFakeLedgerStore(), time.Hour)

	require.NoError(t, ledger.Record(context.Background(), "evt-1", models.EventTypeProduct, 200))

	_, seen, err := ledger.Check(context.Background(), "evt-1", models.EventTypeCategory)
	require.NoError(t, err)
	assert.False(t, seen, "the pair is the dedup key, not the key alone")
}

func TestLedgerCacheMissFallsThroughAndBackfills(t *testing.T) {
	kv := newFakeKV()
	store := newFakeLedgerStore()
	ledger := NewIdempotencyLedger(kv, store, time.Hour)

	// Durable record exists but the cache entry has expired.
	require.NoError(t, store.RecordIdempotency(context.Background(), "evt-1", models.EventTypeProduct, 200))

	status, seen, err := ledger.Check(context.Background(), "evt-1", models.EventTypeProduct)
	require.NoError(t, err)
	assert.True(t, seen)
	assert.Equal(t, 200, status)
	assert.Contains(t, kv.entries, models.EventTypeProduct+":evt-1", "cache backfilled")
}

func TestLedgerSurvivesCacheOutage(t *testing.T) {
	kv := newFakeKV()
	kv.err = fmt.Errorf("redis down")
	store := newFakeLedgerStore()
	ledger := NewIdempotencyLedger(kv, store, time.Hour)

	require.NoError(t, store.RecordIdempotency(context.Background(), "evt-1", models.EventTypeProduct, 200))

	status, seen, err := ledger.Check(context.Background(), "evt-1", models.EventTypeProduct)
	require.NoError(t, err, "a cache outage must not fail the request")
	assert.True(t, seen)
	assert.Equal(t, 200, status)
}
