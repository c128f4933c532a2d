package support

import (
	"context"

	"go.uber.org/zap"

	"github.com/riahunter/backend/internal/app/service/billingevent"
	"github.com/riahunter/backend/internal/app/service/ledger"
	subscriptionsvc "github.com/riahunter/backend/internal/app/service/subscription"
	"github.com/riahunter/backend/internal/models"
)

const (
	debugLedgerLimit = 20
	debugEventLimit  = 50
)

// Service aggregates a read-only support view over the credit subsystem.
type Service struct {
	ledger   *ledger.Service
	subSvc   *subscriptionsvc.Service
	eventSvc *billingevent.Service
	log      *zap.SugaredLogger
}

func NewService(l *ledger.Service, sub *subscriptionsvc.Service, events *billingevent.Service, log *zap.SugaredLogger) *Service {
	return &Service{ledger: l, subSvc: sub, eventSvc: events, log: log}
}

type DebugInfo struct {
	UserID        string                      `json:"user_id"`
	Balance       int64                       `json:"balance"`
	IsSubscriber  bool                        `json:"is_subscriber"`
	LedgerEntries []*models.CreditLedgerEntry `json:"ledger_entries"`
	BillingEvents []*models.BillingEvent      `json:"stripe_events"`
}

// GetDebugInfo returns balance, subscription state, the user's 20 newest
// ledger entries and the 50 newest billing events across all users. Any
// sub-fetch failure aborts the whole call; there are no partial views.
func (s *Service) GetDebugInfo(ctx context.Context, userID string) (*DebugInfo, error) {
	balance, err := s.ledger.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	unlimited, err := s.subSvc.IsUnlimited(ctx, userID)
	if err != nil {
		return nil, err
	}
	entries, err := s.ledger.ListRecent(ctx, userID, debugLedgerLimit)
	if err != nil {
		return nil, err
	}
	events, err := s.eventSvc.ListRecent(ctx, debugEventLimit)
	if err != nil {
		return nil, err
	}
	return &DebugInfo{
		UserID:        userID,
		Balance:       balance,
		IsSubscriber:  unlimited,
		LedgerEntries: entries,
		BillingEvents: events,
	}, nil
}
