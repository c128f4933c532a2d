package support

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

	"github.com/riahunter/backend/internal/app/service/billingevent"
	"github.com/riahunter/backend/internal/app/service/ledger"
	subscriptionsvc "github.com/riahunter/backend/internal/app/service/subscription"
	"github.com/riahunter/backend/internal/models"
	"github.com/riahunter/backend/pkg/tool"
	"github.com/riahunter/backend/pkg/types"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.CreditLedgerEntry{},
		&models.CreditBalance{},
		&models.Subscription{},
		&models.SubscriptionLog{},
		&models.BillingEvent{},
	))
	log := zap.NewNop().Sugar()
	svc := NewService(
		ledger.NewService(db, log),
		subscriptionsvc.NewService(db, log),
		billingevent.New(db, log),
		log,
	)
	return svc, db
}

func TestGetDebugInfo_CapsAndOrdersLedgerEntries(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		require.NoError(t, db.Create(&models.CreditLedgerEntry{
			ID:             tool.GenerateUUIDV7(),
			UserID:         "u1",
			Delta:          2,
			Source:         types.CreditSourceCoupon,
			RefType:        "stripe_checkout",
			RefID:          fmt.Sprintf("cs_%03d", i),
			IdempotencyKey: fmt.Sprintf("u1:add:stripe_checkout:cs_%03d", i),
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	info, err := svc.GetDebugInfo(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", info.UserID)
	assert.Equal(t, int64(50), info.Balance)
	assert.False(t, info.IsSubscriber)
	require.Len(t, info.LedgerEntries, 20)
	assert.Equal(t, "cs_024", info.LedgerEntries[0].RefID)
	assert.Equal(t, "cs_005", info.LedgerEntries[19].RefID)
	assert.Empty(t, info.BillingEvents)
}

func TestGetDebugInfo_ReportsSubscriber(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Subscription{
		ID:     tool.GenerateUUIDV7(),
		UserID: "u1",
		Status: types.SubscriptionStatusActive,
	}).Error)

	info, err := svc.GetDebugInfo(ctx, "u1")
	require.NoError(t, err)
	assert.True(t, info.IsSubscriber)
	assert.Equal(t, int64(0), info.Balance)
	assert.Empty(t, info.LedgerEntries)
}

func TestGetDebugInfo_IncludesBillingEventsAcrossUsers(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&models.BillingEvent{
			ID:         tool.GenerateUUIDV7(),
			EventID:    fmt.Sprintf("evt_%03d", i),
			Type:       "invoice.paid",
			ReceivedAt: time.Now().Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	info, err := svc.GetDebugInfo(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, info.BillingEvents, 3)
	assert.Equal(t, "evt_002", info.BillingEvents[0].EventID)
}
