package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/riahunter/backend/internal/models"
)

// Balance returns the cached balance for a user, recomputing from the ledger
// when no cache row exists yet.
func (s *Service) Balance(ctx context.Context, userID string) (int64, error) {
	var row models.CreditBalance
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&row).Error
	if err == nil {
		return row.Balance, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("failed to read balance cache: %w", err)
	}
	return s.RecomputeBalance(ctx, userID)
}

// RecomputeBalance re-sums the user's ledger and upserts the cache row. This
// is the only writer of credit_balance; it runs after every successful append
// so the cache equals the ledger sum once any credit operation completes.
func (s *Service) RecomputeBalance(ctx context.Context, userID string) (int64, error) {
	total, err := s.sumDeltas(ctx, userID)
	if err != nil {
		return 0, err
	}
	row := models.CreditBalance{UserID: userID, Balance: total, UpdatedAt: time.Now()}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "updated_at"}),
	}).Create(&row).Error; err != nil {
		return 0, fmt.Errorf("failed to upsert balance cache: %w", err)
	}
	return total, nil
}
