package ledger

import (
	"context"
	"fmt"

	"gorm.io/datatypes"
	"gorm.io/gorm/clause"

	"github.com/riahunter/backend/internal/models"
	"github.com/riahunter/backend/pkg/tool"
)

// appendEntry inserts one ledger row. Returns false when a row with the same
// idempotency key already exists; the uniqueness constraint on that column is
// what makes concurrent replays collapse to a single effect.
func (s *Service) appendEntry(ctx context.Context, entry *models.CreditLedgerEntry) (bool, error) {
	if entry.ID == "" {
		entry.ID = tool.GenerateUUIDV7()
	}
	if entry.Metadata == nil {
		entry.Metadata = datatypes.JSONMap{}
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "idempotency_key"}},
		DoNothing: true,
	}).Create(entry)
	if res.Error != nil {
		return false, fmt.Errorf("failed to append ledger entry: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (s *Service) findByIdempotencyKey(ctx context.Context, key string) (*models.CreditLedgerEntry, error) {
	var entry models.CreditLedgerEntry
	if err := s.db.WithContext(ctx).Where("idempotency_key = ?", key).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListRecent returns the newest entries for a user, newest first.
func (s *Service) ListRecent(ctx context.Context, userID string, limit int) ([]*models.CreditLedgerEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	var rows []*models.CreditLedgerEntry
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return rows, nil
}

// sumDeltas aggregates every delta for a user straight from the ledger.
func (s *Service) sumDeltas(ctx context.Context, userID string) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).
		Model(&models.CreditLedgerEntry{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(delta), 0)").
		Scan(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to sum ledger entries: %w", err)
	}
	return total, nil
}
