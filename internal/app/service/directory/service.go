package directory

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/riahunter/backend/internal/models"
	"github.com/riahunter/backend/pkg/tool"
)

// Service is the searchable RIA directory. Reads are credit-gated at the
// handler layer; this service only knows about profiles.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

type SearchRequest struct {
	// Query matches firm names case-insensitively.
	Query string `json:"query"`
	State string `json:"state"`
	// MinAUM filters to firms managing at least this many dollars.
	MinAUM int64 `json:"min_aum"`
	From   int   `json:"from"`
	Size   int   `json:"size"`
}

type SearchResponse struct {
	Items []*models.RIAProfile `json:"items"`
	Total int64                `json:"total"`
}

// SearchFirms runs a filtered, paginated directory search ordered by AUM
// descending.
func (s *Service) SearchFirms(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}
	if req.Size <= 0 {
		req.Size = 20
	}
	if req.From < 0 {
		req.From = 0
	}

	tx := s.db.WithContext(ctx).Model(&models.RIAProfile{})
	if q := strings.TrimSpace(req.Query); q != "" {
		tx = tx.Where("LOWER(firm_name) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	if req.State != "" {
		tx = tx.Where("state = ?", strings.ToUpper(req.State))
	}
	if req.MinAUM > 0 {
		tx = tx.Where("aum >= ?", req.MinAUM)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count firms: %w", err)
	}

	var rows []*models.RIAProfile
	q := tx.Order("aum desc").Limit(req.Size)
	if req.From > 0 {
		q = q.Offset(req.From)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to search firms: %w", err)
	}
	return &SearchResponse{Items: rows, Total: total}, nil
}

// GetFirmByCRD returns one profile, or nil when the CRD number is unknown.
func (s *Service) GetFirmByCRD(ctx context.Context, crdNumber int64) (*models.RIAProfile, error) {
	var firm models.RIAProfile
	err := s.db.WithContext(ctx).Where("crd_number = ?", crdNumber).First(&firm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get firm: %w", err)
	}
	return &firm, nil
}

// UpsertFirm creates or replaces a profile keyed by CRD number. Used by the
// admin import endpoint.
func (s *Service) UpsertFirm(ctx context.Context, firm *models.RIAProfile) error {
	if firm.CRDNumber <= 0 {
		return fmt.Errorf("crd_number is required")
	}
	if firm.ID == "" {
		firm.ID = tool.GenerateUUIDV7()
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "crd_number"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"firm_name", "city", "state", "aum", "rep_count", "services", "website", "phone", "updated_at",
		}),
	}).Create(firm).Error; err != nil {
		return fmt.Errorf("failed to upsert firm: %w", err)
	}
	return nil
}
