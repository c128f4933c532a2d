package statistics

import (
	"context"
	"fmt"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/riahunter/backend/pkg/types"
)

// Service computes admin-facing aggregates over the credit ledger.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

const dayLayout = "2006-01-02"

type CreditStatisticRequest struct {
	// StartDate/EndDate bound the report, inclusive, as YYYY-MM-DD.
	StartDate string               `json:"start_date"`
	EndDate   string               `json:"end_date"`
	Sources   []types.CreditSource `json:"sources"`
}

type DailyCreditStat struct {
	Day      string             `json:"day"`
	Source   types.CreditSource `json:"source"`
	Granted  int64              `json:"granted"`
	Consumed int64              `json:"consumed"`
}

type CreditStatisticResponse struct {
	Items []*DailyCreditStat `json:"items"`
}

// GetDailyCreditStatistic sums credits granted and consumed per day per
// source over the requested range.
func (s *Service) GetDailyCreditStatistic(ctx context.Context, req *CreditStatisticRequest) (*CreditStatisticResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	start, err := time.Parse(dayLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("invalid start_date: %w", err)
	}
	end, err := time.Parse(dayLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("invalid end_date: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("end_date before start_date")
	}
	for _, src := range req.Sources {
		if !src.Valid() {
			return nil, fmt.Errorf("unknown credit source %q", src)
		}
	}

	query := `
		SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day,
		       source,
		       SUM(CASE WHEN delta > 0 THEN delta ELSE 0 END)  AS granted,
		       SUM(CASE WHEN delta < 0 THEN -delta ELSE 0 END) AS consumed
		FROM credit_ledger_entry
		WHERE created_at >= ? AND created_at < ?`
	args := []any{start, end.AddDate(0, 0, 1)}
	if len(req.Sources) > 0 {
		query += " AND source IN ?"
		args = append(args, lo.Map(req.Sources, func(src types.CreditSource, _ int) string { return string(src) }))
	}
	query += " GROUP BY 1, 2 ORDER BY 1, 2"

	var items []*DailyCreditStat
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to aggregate credit statistics: %w", err)
	}
	return &CreditStatisticResponse{Items: items}, nil
}
