package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/riahunter/backend/pkg/types"
)

// CreditLedgerEntry is one signed balance delta in the append-only credit
// ledger. Rows are never updated or deleted; a user's balance at any time is
// the sum of their deltas up to that time.
type CreditLedgerEntry struct {
	ID     string             `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string             `gorm:"column:user_id;type:varchar(64);not null;index:idx_user_created,priority:1" json:"user_id"`
	Delta  int64              `gorm:"column:delta;type:bigint;not null" json:"delta"`
	Source types.CreditSource `gorm:"column:source;type:varchar(32);not null" json:"source"`
	// RefType/RefID identify the causing event, e.g. ("search", query id)
	// or ("stripe_invoice", invoice id).
	RefType string `gorm:"column:ref_type;type:varchar(64);not null" json:"ref_type"`
	RefID   string `gorm:"column:ref_id;type:varchar(128);not null" json:"ref_id"`
	// IdempotencyKey is globally unique; a second append presenting the same
	// key is a no-op. The uniqueness constraint is the only concurrency
	// control the ledger relies on.
	IdempotencyKey string            `gorm:"column:idempotency_key;type:varchar(191);not null;uniqueIndex" json:"idempotency_key"`
	Metadata       datatypes.JSONMap `gorm:"column:metadata;type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt      time.Time         `gorm:"column:created_at;index:idx_user_created,priority:2,sort:desc" json:"created_at"`
}

func (CreditLedgerEntry) TableName() string {
	return "credit_ledger_entry"
}
