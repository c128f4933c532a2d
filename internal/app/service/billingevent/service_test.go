package billingevent

import (
	"context"
	"errors"
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
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.BillingEvent{}))
	return New(db, zap.NewNop().Sugar()), db
}

func TestRecord_DedupesByEventID(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	created, err := svc.Record(ctx, &models.BillingEvent{EventID: "evt_001", Type: "invoice.paid"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.Record(ctx, &models.BillingEvent{EventID: "evt_001", Type: "invoice.paid"})
	require.NoError(t, err)
	assert.False(t, created)

	var count int64
	require.NoError(t, db.Model(&models.BillingEvent{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestMarkProcessed_OutcomeIsWrittenOnce(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Record(ctx, &models.BillingEvent{EventID: "evt_001", Type: "invoice.paid"})
	require.NoError(t, err)

	require.NoError(t, svc.MarkProcessed(ctx, "evt_001", true, nil))
	// a later attempt must not overwrite the recorded outcome
	require.NoError(t, svc.MarkProcessed(ctx, "evt_001", false, errors.New("late failure")))

	var row models.BillingEvent
	require.NoError(t, db.Where("event_id = ?", "evt_001").First(&row).Error)
	require.NotNil(t, row.ProcessedOk)
	assert.True(t, *row.ProcessedOk)
	assert.Nil(t, row.Error)
	require.NotNil(t, row.ProcessedAt)
}

func TestMarkProcessed_RecordsFailure(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.Record(ctx, &models.BillingEvent{EventID: "evt_002", Type: "charge.refunded"})
	require.NoError(t, err)
	require.NoError(t, svc.MarkProcessed(ctx, "evt_002", false, errors.New("unknown plan")))

	var row models.BillingEvent
	require.NoError(t, db.Where("event_id = ?", "evt_002").First(&row).Error)
	require.NotNil(t, row.ProcessedOk)
	assert.False(t, *row.ProcessedOk)
	require.NotNil(t, row.Error)
	assert.Equal(t, "unknown plan", *row.Error)
}

func TestListRecent_NewestFirstAndCapped(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 3; i++ {
		_, err := svc.Record(ctx, &models.BillingEvent{
			EventID:    fmt.Sprintf("evt_%03d", i),
			Type:       "invoice.paid",
			ReceivedAt: base.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	items, err := svc.ListRecent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "evt_002", items[0].EventID)
	assert.Equal(t, "evt_001", items[1].EventID)
}
