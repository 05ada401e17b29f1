package service

import (
	"context"
	"testing"

	"catalog-service/internal/domain"
	"catalog-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	rows   map[string]models.UserRow
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{rows: make(map[string]models.UserRow)}
}

func (f *fakeUserStore) UpsertUserByPhone(_ context.Context, phone, name, email string, enabled bool, loyaltyPoints int) (models.UserRow, error) {
	row, ok := f.rows[phone]
	if !ok {
		f.nextID++
		row = models.UserRow{ID: f.nextID, Phone: phone}
	}
	row.Name = name
	row.Enabled = enabled
	row.LoyaltyPoints = loyaltyPoints
	f.rows[phone] = row
	return row, nil
}

func TestSyncUserNormalizesPhone(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)

	user, err := svc.SyncUser(context.Background(), &SyncUserRequest{
		Phone: "+992 93 123 45 67",
		Name:  "Firdavs",
	})
	require.NoError(t, err)
	assert.Equal(t, "+992931234567", user.Phone)

	// A differently formatted delivery of the same number converges.
	again, err := svc.SyncUser(context.Background(), &SyncUserRequest{
		Phone: "+992931234567",
		Name:  "Firdavs R.",
	})
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
	assert.Len(t, store.rows, 1)
}

func TestSyncUserRejectsInvalidPhone(t *testing.T) {
	svc := NewUserService(newFakeUserStore())

	_, err := svc.SyncUser(context.Background(), &SyncUserRequest{
		Phone: "not-a-phone",
		Name:  "Nobody",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidPayload)
}

func TestSyncUsersBatchIsolation(t *testing.T) {
	store := newFakeUserStore()
	svc := NewUserService(store)

	result := svc.SyncUsers(context.Background(), []SyncUserRequest{
		{Phone: "+992931234567", Name: "Firdavs"},
		{Phone: "bad", Name: "Broken"},
		{Phone: "+992900000001", Name: "Madina"},
	})

	assert.Equal(t, models.SyncResult{Synced: 2, Errors: 1}, result)
	assert.Len(t, store.rows, 2)
}
