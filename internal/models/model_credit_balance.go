package models

import "time"

// CreditBalance is the denormalized running sum of a user's ledger entries.
// It is a rebuildable cache, never the source of truth: the ledger service
// recomputes it from credit_ledger_entry after every successful append.
type CreditBalance struct {
	UserID    string    `gorm:"column:user_id;type:varchar(64);primary_key" json:"user_id"`
	Balance   int64     `gorm:"column:balance;type:bigint;not null;default:0" json:"balance"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (CreditBalance) TableName() string {
	return "credit_balance"
}
