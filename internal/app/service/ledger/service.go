package ledger

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/riahunter/backend/internal/models"
	"github.com/riahunter/backend/pkg/logctx"
	"github.com/riahunter/backend/pkg/metrics"
	"github.com/riahunter/backend/pkg/types"
)

// Service is the only sanctioned writer of the credit ledger and the balance
// cache. All mutations go through AddCredits/DeductCredits.
type Service struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewService(db *gorm.DB, log *zap.SugaredLogger) *Service {
	return &Service{db: db, log: log}
}

// Options carries the bookkeeping fields of one credit operation.
type Options struct {
	Source  types.CreditSource
	RefType string
	RefID   string
	// IdempotencyKey overrides the derived key. When empty, the key is built
	// from (userID, op, RefType, RefID) and both ref fields are required.
	IdempotencyKey string
	Metadata       map[string]any
}

func (o *Options) deriveKey(userID, op string) (string, error) {
	if o.IdempotencyKey != "" {
		return o.IdempotencyKey, nil
	}
	if o.RefType == "" || o.RefID == "" {
		return "", ErrMissingReference
	}
	return fmt.Sprintf("%s:%s:%s:%s", userID, op, o.RefType, o.RefID), nil
}

// AddCredits appends a positive delta for the user and returns the new
// balance. A replay with the same idempotency key is a silent no-op that
// returns the current balance instead.
func (s *Service) AddCredits(ctx context.Context, userID string, amount int64, opts Options) (int64, error) {
	return s.apply(ctx, "add", userID, amount, opts)
}

// DeductCredits appends a negative delta for the user and returns the new
// balance. The balance must cover the amount unless source is admin_adjust,
// which may drive it negative for corrective actions.
func (s *Service) DeductCredits(ctx context.Context, userID string, amount int64, opts Options) (int64, error) {
	return s.apply(ctx, "deduct", userID, amount, opts)
}

func (s *Service) apply(ctx context.Context, op, userID string, amount int64, opts Options) (int64, error) {
	log := logctx.FromCtx(ctx, s.log)

	if amount <= 0 {
		s.count(op, opts.Source, "rejected")
		return 0, ErrInvalidAmount
	}
	if !opts.Source.Valid() {
		s.count(op, opts.Source, "rejected")
		return 0, fmt.Errorf("unknown credit source %q", opts.Source)
	}

	key, err := opts.deriveKey(userID, op)
	if err != nil {
		s.count(op, opts.Source, "rejected")
		return 0, err
	}

	// A replayed key must return the pre-existing state even if today's
	// balance would no longer pass the deduct guard.
	if _, err := s.findByIdempotencyKey(ctx, key); err == nil {
		s.count(op, opts.Source, "duplicate")
		return s.Balance(ctx, userID)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.count(op, opts.Source, "error")
		return 0, fmt.Errorf("failed to check idempotency key: %w", err)
	}

	delta := amount
	if op == "deduct" {
		if opts.Source != types.CreditSourceAdminAdjust {
			balance, err := s.Balance(ctx, userID)
			if err != nil {
				s.count(op, opts.Source, "error")
				return 0, err
			}
			if balance < amount {
				s.count(op, opts.Source, "rejected")
				return balance, &InsufficientCreditsError{Balance: balance, Requested: amount}
			}
		}
		delta = -amount
	}

	applied, err := s.appendEntry(ctx, &models.CreditLedgerEntry{
		UserID:         userID,
		Delta:          delta,
		Source:         opts.Source,
		RefType:        opts.RefType,
		RefID:          opts.RefID,
		IdempotencyKey: key,
		Metadata:       datatypes.JSONMap(opts.Metadata),
	})
	if err != nil {
		s.count(op, opts.Source, "error")
		return 0, err
	}
	if !applied {
		// Lost the insert race to a concurrent call holding the same key.
		s.count(op, opts.Source, "duplicate")
		return s.Balance(ctx, userID)
	}

	balance, err := s.RecomputeBalance(ctx, userID)
	if err != nil {
		s.count(op, opts.Source, "error")
		return 0, err
	}

	s.count(op, opts.Source, "applied")
	log.Infow("credit operation applied",
		"op", op, "user_id", userID, "delta", delta, "source", opts.Source, "balance", balance)
	return balance, nil
}

func (s *Service) count(op string, source types.CreditSource, result string) {
	metrics.CreditOps.WithLabelValues(op, string(source), result).Inc()
}
