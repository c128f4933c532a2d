package subscription

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/riahunter/backend/internal/models"
	"github.com/riahunter/backend/pkg/types"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Subscription{}, &models.SubscriptionLog{}))
	return NewService(db, zap.NewNop().Sugar()), db
}

func TestUnlimitedAt_AllCases(t *testing.T) {
	now := time.Now()
	future := now.Add(time.Hour)
	past := now.Add(-time.Hour)

	tests := []struct {
		name string
		sub  *models.Subscription
		want bool
	}{
		{name: "nil subscription", sub: nil, want: false},
		{name: "active", sub: &models.Subscription{Status: types.SubscriptionStatusActive}, want: true},
		{name: "trialing", sub: &models.Subscription{Status: types.SubscriptionStatusTrialing}, want: true},
		{name: "past_due within period", sub: &models.Subscription{Status: types.SubscriptionStatusPastDue, CurrentPeriodEnd: &future}, want: true},
		{name: "past_due period ended", sub: &models.Subscription{Status: types.SubscriptionStatusPastDue, CurrentPeriodEnd: &past}, want: false},
		{name: "past_due without period end", sub: &models.Subscription{Status: types.SubscriptionStatusPastDue}, want: false},
		{name: "canceled", sub: &models.Subscription{Status: types.SubscriptionStatusCanceled, CurrentPeriodEnd: &future}, want: false},
		{name: "none", sub: &models.Subscription{Status: types.SubscriptionStatusNone}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.sub.UnlimitedAt(now))
		})
	}
}

func TestIsUnlimited_NoRowMeansFalse(t *testing.T) {
	svc, _ := newTestService(t)
	unlimited, err := svc.IsUnlimited(context.Background(), "ghost")
	require.NoError(t, err)
	assert.False(t, unlimited)
}

func TestInfo_NoRowReturnsNoneStatus(t *testing.T) {
	svc, _ := newTestService(t)
	info, err := svc.Info(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, types.SubscriptionStatusNone, info.Status)
	assert.False(t, info.Unlimited)
	assert.Nil(t, info.CurrentPeriodEnd)
}

func TestUpsert_PreservesRowIdentity(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	end := time.Now().Add(30 * 24 * time.Hour)
	require.NoError(t, svc.Upsert(ctx, &models.Subscription{
		UserID:           "u1",
		Status:           types.SubscriptionStatusActive,
		CurrentPeriodEnd: &end,
	}, types.SubscriptionChangeReasonInvoicePaid))

	first, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, first)
	require.NotEmpty(t, first.ID)

	require.NoError(t, svc.Upsert(ctx, &models.Subscription{
		UserID: "u1",
		Status: types.SubscriptionStatusCanceled,
	}, types.SubscriptionChangeReasonCanceled))

	second, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, types.SubscriptionStatusCanceled, second.Status)

	var count int64
	require.NoError(t, db.Model(&models.Subscription{}).Where("user_id = ?", "u1").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestFindByCustomer(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	customer := "cus_123"
	require.NoError(t, svc.Upsert(ctx, &models.Subscription{
		UserID:           "u1",
		Status:           types.SubscriptionStatusActive,
		StripeCustomerID: &customer,
	}, types.SubscriptionChangeReasonProviderSync))

	var found models.Subscription
	require.NoError(t, svc.FindByCustomer(ctx, "cus_123", &found))
	assert.Equal(t, "u1", found.UserID)

	err := svc.FindByCustomer(ctx, "cus_unknown", &models.Subscription{})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
