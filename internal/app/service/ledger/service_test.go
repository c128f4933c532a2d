package ledger

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
	"github.com/riahunter/backend/pkg/tool"
	"github.com/riahunter/backend/pkg/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.CreditLedgerEntry{}, &models.CreditBalance{}))
	return db
}

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewService(db, zap.NewNop().Sugar()), db
}

func countEntries(t *testing.T, db *gorm.DB, userID string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&models.CreditLedgerEntry{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func TestAddCredits_GrantsAndRecomputesBalance(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	balance, err := svc.AddCredits(ctx, "u1", 100, Options{
		Source:  types.CreditSourceSubscription,
		RefType: "stripe_invoice",
		RefID:   "in_001",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100), balance)
	assert.Equal(t, int64(1), countEntries(t, db, "u1"))

	var cached models.CreditBalance
	require.NoError(t, db.Where("user_id = ?", "u1").First(&cached).Error)
	assert.Equal(t, int64(100), cached.Balance)
}

func TestAddCredits_ReplaySameKeyIsNoOp(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()
	opts := Options{Source: types.CreditSourceCoupon, RefType: "stripe_checkout", RefID: "cs_001"}

	first, err := svc.AddCredits(ctx, "u1", 50, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(50), first)

	second, err := svc.AddCredits(ctx, "u1", 50, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(50), second)
	assert.Equal(t, int64(1), countEntries(t, db, "u1"))
}

func TestDeductCredits_InsufficientBalanceAppendsNothing(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddCredits(ctx, "u1", 10, Options{Source: types.CreditSourceCoupon, RefType: "stripe_checkout", RefID: "cs_001"})
	require.NoError(t, err)

	_, err = svc.DeductCredits(ctx, "u1", 50, Options{Source: types.CreditSourceUsage, RefType: "search", RefID: "q1"})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrInsufficientCredits))

	var ice *InsufficientCreditsError
	require.True(t, errors.As(err, &ice))
	assert.Equal(t, int64(10), ice.Balance)
	assert.Equal(t, int64(50), ice.Requested)

	// the rejected deduction must leave no trace in the ledger
	assert.Equal(t, int64(1), countEntries(t, db, "u1"))
	balance, err := svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), balance)
}

func TestDeductCredits_AdminAdjustMayGoNegative(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	balance, err := svc.DeductCredits(ctx, "u1", 30, Options{
		Source:  types.CreditSourceAdminAdjust,
		RefType: "support_ticket",
		RefID:   "T-42",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(-30), balance)
}

func TestDeductCredits_ReplayIgnoresBalanceGuard(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddCredits(ctx, "u1", 100, Options{Source: types.CreditSourceCoupon, RefType: "stripe_checkout", RefID: "cs_001"})
	require.NoError(t, err)

	opts := Options{Source: types.CreditSourceUsage, RefType: "search", RefID: "q1"}
	balance, err := svc.DeductCredits(ctx, "u1", 80, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(20), balance)

	// replaying a key whose original deduction dropped the balance below the
	// requested amount must still be a silent no-op, not an error
	balance, err = svc.DeductCredits(ctx, "u1", 80, opts)
	require.NoError(t, err)
	assert.Equal(t, int64(20), balance)
	assert.Equal(t, int64(2), countEntries(t, db, "u1"))
}

func TestApply_RejectsInvalidInput(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		amount  int64
		opts    Options
		wantErr error
	}{
		{name: "zero amount", amount: 0, opts: Options{Source: types.CreditSourceUsage, RefType: "search", RefID: "q1"}, wantErr: ErrInvalidAmount},
		{name: "negative amount", amount: -5, opts: Options{Source: types.CreditSourceUsage, RefType: "search", RefID: "q1"}, wantErr: ErrInvalidAmount},
		{name: "missing refs without key", amount: 5, opts: Options{Source: types.CreditSourceUsage}, wantErr: ErrMissingReference},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.AddCredits(ctx, "u1", tt.amount, tt.opts)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
		})
	}

	_, err := svc.AddCredits(ctx, "u1", 5, Options{Source: "bogus", RefType: "search", RefID: "q1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown credit source")

	assert.Equal(t, int64(0), countEntries(t, db, "u1"))
}

func TestDeriveKey(t *testing.T) {
	opts := Options{RefType: "search", RefID: "q1"}
	key, err := opts.deriveKey("u1", "deduct")
	require.NoError(t, err)
	assert.Equal(t, "u1:deduct:search:q1", key)

	// same inputs always derive the same key
	again, err := opts.deriveKey("u1", "deduct")
	require.NoError(t, err)
	assert.Equal(t, key, again)

	// an explicit key wins over derivation
	explicit := Options{IdempotencyKey: "custom-key"}
	key, err = explicit.deriveKey("u1", "add")
	require.NoError(t, err)
	assert.Equal(t, "custom-key", key)

	_, err = (&Options{RefType: "search"}).deriveKey("u1", "deduct")
	assert.True(t, errors.Is(err, ErrMissingReference))
}

func TestApply_DistinctKeysBothApply(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddCredits(ctx, "u1", 100, Options{Source: types.CreditSourceCoupon, RefType: "stripe_checkout", RefID: "cs_001"})
	require.NoError(t, err)

	for _, refID := range []string{"q1", "q2"} {
		_, err := svc.DeductCredits(ctx, "u1", 10, Options{Source: types.CreditSourceUsage, RefType: "search", RefID: refID})
		require.NoError(t, err)
	}

	balance, err := svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(80), balance)
	assert.Equal(t, int64(3), countEntries(t, db, "u1"))
}

func TestBalance_RecomputesOnCacheMiss(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	// seed ledger rows directly, bypassing the cache writer
	for i, delta := range []int64{40, -15} {
		require.NoError(t, db.Create(&models.CreditLedgerEntry{
			ID:             tool.GenerateUUIDV7(),
			UserID:         "u1",
			Delta:          delta,
			Source:         types.CreditSourceMigration,
			RefType:        "import",
			RefID:          fmt.Sprintf("row-%d", i),
			IdempotencyKey: fmt.Sprintf("u1:migration:%d", i),
		}).Error)
	}

	balance, err := svc.Balance(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(25), balance)

	// the miss must have repopulated the cache
	var cached models.CreditBalance
	require.NoError(t, db.Where("user_id = ?", "u1").First(&cached).Error)
	assert.Equal(t, int64(25), cached.Balance)
}

func TestBalance_ZeroForUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	balance, err := svc.Balance(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Equal(t, int64(0), balance)
}

func TestListRecent_NewestFirstAndCapped(t *testing.T) {
	svc, db := newTestService(t)
	ctx := context.Background()

	base := time.Now().Add(-time.Hour)
	for i := 0; i < 25; i++ {
		require.NoError(t, db.Create(&models.CreditLedgerEntry{
			ID:             tool.GenerateUUIDV7(),
			UserID:         "u1",
			Delta:          1,
			Source:         types.CreditSourceUsage,
			RefType:        "search",
			RefID:          fmt.Sprintf("q%d", i),
			IdempotencyKey: fmt.Sprintf("u1:deduct:search:q%d", i),
			CreatedAt:      base.Add(time.Duration(i) * time.Minute),
		}).Error)
	}

	items, err := svc.ListRecent(ctx, "u1", 0)
	require.NoError(t, err)
	require.Len(t, items, 20)
	assert.Equal(t, "q24", items[0].RefID)
	assert.Equal(t, "q5", items[len(items)-1].RefID)
}
