package models

import (
	"time"

	"gorm.io/datatypes"
)

// BillingEvent is the audit row for one received billing provider event.
// A row is created once per provider event id; the only permitted mutation is
// recording the processing outcome, exactly once.
type BillingEvent struct {
	ID string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	// EventID is the provider's event id (evt_...); the uniqueness constraint
	// makes webhook redelivery a no-op.
	EventID    string         `gorm:"column:event_id;type:varchar(128);not null;uniqueIndex" json:"event_id"`
	Type       string         `gorm:"column:type;type:varchar(128);not null" json:"type"`
	TraceID    string         `gorm:"column:trace_id;type:varchar(128)" json:"trace_id"`
	Payload    datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	ReceivedAt time.Time      `gorm:"column:received_at" json:"received_at"`
	// ProcessedOk is nil while processing is pending, then set once.
	ProcessedOk *bool      `gorm:"column:processed_ok;default:null" json:"processed_ok"`
	ProcessedAt *time.Time `gorm:"column:processed_at;default:null" json:"processed_at"`
	Error       *string    `gorm:"column:error;type:text;default:null" json:"error"`
	CreatedAt   time.Time  `json:"created_at"`
}

func (BillingEvent) TableName() string {
	return "billing_event"
}
