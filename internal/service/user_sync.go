package service

import (
	"context"

	"catalog-service/internal/domain"
	"catalog-service/internal/models"
	"catalog-service/internal/util"

	"go.uber.org/zap"
)

// UserService syncs storefront customers from the ERP, keyed by
// normalized phone number.
type UserService struct {
	store  UserStore
	logger *zap.Logger
}

// NewUserService creates a new user sync service
func NewUserService(store UserStore) *UserService {
	return &UserService{store: store, logger: util.GetLogger()}
}

// SyncUserRequest is one customer record from the ERP.
type SyncUserRequest struct {
	Phone         string `json:"phone" binding:"required"`
	Name          string `json:"name" binding:"required"`
	Email         string `json:"email"`
	Enabled       bool   `json:"enabled"`
	LoyaltyPoints int    `json:"loyalty_points"`
}

// SyncUser upserts one customer. The phone number is normalized before
// it becomes the natural key, so formatting variants of the same number
// converge on one row.
func (s *UserService) SyncUser(ctx context.Context, req *SyncUserRequest) (*models.UserRow, error) {
	phone, err := domain.NewPhoneNumber(req.Phone)
	if err != nil {
		return nil, err
	}

	row, err := s.store.UpsertUserByPhone(ctx, string(phone), req.Name, req.Email, req.Enabled, req.LoyaltyPoints)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// SyncUsers upserts a batch with per-item isolation.
func (s *UserService) SyncUsers(ctx context.Context, reqs []SyncUserRequest) models.SyncResult {
	var result models.SyncResult
	for i := range reqs {
		if _, err := s.SyncUser(ctx, &reqs[i]); err != nil {
			s.logger.Warn("User sync failed in batch",
				zap.String("phone", reqs[i].Phone), zap.Error(err))
			util.SyncFailuresTotal.WithLabelValues(models.EventTypeUser, failureReason(err)).Inc()
			result.Errors++
			continue
		}
		result.Synced++
	}
	return result
}
