package billingevent

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/riahunter/backend/internal/models"
	"github.com/riahunter/backend/pkg/tool"
)

// Service persists the billing provider's event audit log. Rows are created
// once per provider event id and mutated only to record the processing
// outcome.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func New(db *gorm.DB, log *zap.SugaredLogger) *Service { return &Service{db: db, log: log} }

// Record inserts the event if its provider event id was not seen before.
// Returns false for a redelivery, which callers must treat as a no-op.
func (s *Service) Record(ctx context.Context, event *models.BillingEvent) (bool, error) {
	if event.ID == "" {
		event.ID = tool.GenerateUUIDV7()
	}
	if event.ReceivedAt.IsZero() {
		event.ReceivedAt = time.Now()
	}
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}},
		DoNothing: true,
	}).Create(event)
	if res.Error != nil {
		return false, fmt.Errorf("failed to record billing event: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

// MarkProcessed records the processing outcome exactly once. Rows that
// already carry an outcome are left untouched.
func (s *Service) MarkProcessed(ctx context.Context, eventID string, ok bool, procErr error) error {
	updates := map[string]any{
		"processed_ok": ok,
		"processed_at": time.Now(),
	}
	if procErr != nil {
		updates["error"] = procErr.Error()
	}
	res := s.db.WithContext(ctx).
		Model(&models.BillingEvent{}).
		Where("event_id = ? AND processed_ok IS NULL", eventID).
		Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to mark billing event processed: %w", res.Error)
	}
	return nil
}

// ListRecent returns the newest events across all users, newest first.
func (s *Service) ListRecent(ctx context.Context, limit int) ([]*models.BillingEvent, error) {
	if limit <= 0 {
		limit = 50
	}
	var rows []*models.BillingEvent
	if err := s.db.WithContext(ctx).
		Order("received_at desc").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list billing events: %w", err)
	}
	return rows, nil
}
