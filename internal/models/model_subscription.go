package models

import (
	"time"

	"gorm.io/datatypes"

	"github.com/riahunter/backend/pkg/types"
)

// Subscription mirrors the billing provider's subscription state for a user.
// Use Unlimited() to decide whether the user bypasses credit deduction.
type Subscription struct {
	ID     string                   `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID string                   `gorm:"column:user_id;type:varchar(64);not null;uniqueIndex" json:"user_id"`
	Status types.SubscriptionStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	// CurrentPeriodEnd is the end of the paid period; with status past_due it
	// bounds the grace window during which usage stays unlimited.
	CurrentPeriodEnd *time.Time `gorm:"column:current_period_end;default:null" json:"current_period_end"`
	StripeCustomerID *string    `gorm:"column:stripe_customer_id;type:varchar(64);index" json:"stripe_customer_id"`
	StripeSubID      *string    `gorm:"column:stripe_sub_id;type:varchar(64)" json:"stripe_sub_id"`
	// Extra stores additional JSON data (for example: plan and price details).
	Extra datatypes.JSON `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	// CreatedAt is managed by GORM and records the creation time.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is managed by GORM and records the update time.
	UpdatedAt time.Time `json:"updated_at"`
}

func (Subscription) TableName() string {
	return "subscription"
}

// Unlimited reports whether the subscription grants unlimited usage right now:
// active or trialing, or past_due with the current period still running.
func (s *Subscription) Unlimited() bool {
	return s.UnlimitedAt(time.Now())
}

func (s *Subscription) UnlimitedAt(now time.Time) bool {
	if s == nil {
		return false
	}
	switch s.Status {
	case types.SubscriptionStatusActive, types.SubscriptionStatusTrialing:
		return true
	case types.SubscriptionStatusPastDue:
		return s.CurrentPeriodEnd != nil && s.CurrentPeriodEnd.After(now)
	default:
		return false
	}
}
