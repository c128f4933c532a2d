package ledger

import (
	"context"
	"fmt"

	"gorm.io/gorm/clause"

	"github.com/riahunter/backend/internal/models"
	"github.com/riahunter/backend/pkg/types"
)

// filtersAnd combines multiple CommonFilter into a single clause.Expression
type filtersAnd struct{ filters []*types.CommonFilter }

func (w filtersAnd) Build(builder clause.Builder) {
	if len(w.filters) == 0 {
		builder.WriteString("1=1")
		return
	}
	exprs := make([]clause.Expression, 0, len(w.filters))
	for _, f := range w.filters {
		exprs = append(exprs, f)
	}
	clause.And(exprs...).Build(builder)
}

type ScanEntriesRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

type ScanEntriesResponse struct {
	Items []*models.CreditLedgerEntry `json:"items"`
	Total int64                       `json:"total"`
}

// ScanEntries implements paginated/admin listing with filters
func (s *Service) ScanEntries(ctx context.Context, req *ScanEntriesRequest) (*ScanEntriesResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 10
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.CreditLedgerEntry{})
	if len(req.Filters) > 0 {
		tx = tx.Where(clause.Where{Exprs: []clause.Expression{filtersAnd{filters: req.Filters}}})
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count ledger entries: %w", err)
	}

	var rows []*models.CreditLedgerEntry

	q := tx.Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if req.SortBy == "" {
		req.SortBy = "created_at"
	}
	q = q.Order(clause.OrderBy{Columns: []clause.OrderByColumn{{Column: clause.Column{Name: req.SortBy}, Desc: req.SortOrder != "asc"}}})

	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}

	return &ScanEntriesResponse{Items: rows, Total: total}, nil
}
