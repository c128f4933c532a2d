package subscription

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/riahunter/backend/internal/models"
	"github.com/riahunter/backend/pkg/logctx"
	"github.com/riahunter/backend/pkg/tool"
	"github.com/riahunter/backend/pkg/types"
)

type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Get returns the user's subscription row, or nil when none exists.
func (s *Service) Get(ctx context.Context, userID string) (*models.Subscription, error) {
	var sub models.Subscription
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get subscription: %w", err)
	}
	return &sub, nil
}

// FindByCustomer loads a subscription by the billing provider's customer id.
func (s *Service) FindByCustomer(ctx context.Context, customerID string, out *models.Subscription) error {
	return s.db.WithContext(ctx).Where("stripe_customer_id = ?", customerID).First(out).Error
}

// IsUnlimited answers whether the user currently has unlimited usage:
// active or trialing, or past_due with the paid period still running.
// Users without a subscription row are not unlimited.
func (s *Service) IsUnlimited(ctx context.Context, userID string) (bool, error) {
	sub, err := s.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return sub.Unlimited(), nil
}

// Info returns the user-facing subscription view.
func (s *Service) Info(ctx context.Context, userID string) (*types.SubscriptionInfo, error) {
	sub, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return &types.SubscriptionInfo{Status: types.SubscriptionStatusNone}, nil
	}
	return &types.SubscriptionInfo{
		Status:           sub.Status,
		CurrentPeriodEnd: sub.CurrentPeriodEnd,
		Unlimited:        sub.Unlimited(),
	}, nil
}

// Upsert replaces the user's subscription state, preserving the row identity
// and creation time when one already exists. A before/after snapshot is
// written to subscription_log asynchronously.
func (s *Service) Upsert(ctx context.Context, m *models.Subscription, reason types.SubscriptionChangeReason) error {
	var original models.Subscription
	if err := s.db.WithContext(ctx).Where("user_id = ?", m.UserID).First(&original).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to get original subscription: %w", err)
		}
	}

	if original.ID != "" {
		m.ID = original.ID
		m.CreatedAt = original.CreatedAt
	} else if m.ID == "" {
		m.ID = tool.GenerateUUIDV7()
	}

	before := func() *models.Subscription {
		if original.ID == "" {
			return nil
		}
		cp := original
		return &cp
	}()

	if err := s.db.WithContext(ctx).Save(m).Error; err != nil {
		return fmt.Errorf("failed to upsert subscription: %w", err)
	}

	// Write change log asynchronously; errors are logged but not returned
	go func(b *models.Subscription, a *models.Subscription) {
		log := &models.SubscriptionLog{
			ID:     tool.GenerateUUIDV7(),
			UserID: a.UserID,
			Reason: reason,
			Before: datatypes.NewJSONType(b),
			After:  datatypes.NewJSONType(a),
			Extra:  datatypes.JSONMap{},
		}
		if err := s.db.Save(log).Error; err != nil {
			logctx.FromCtx(ctx, s.log).Errorf("failed to save subscription log: %v", err)
		}
	}(before, m)

	return nil
}
