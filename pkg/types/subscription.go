package types

import "time"

// SubscriptionStatus mirrors the billing provider's subscription states.
type SubscriptionStatus string

const (
	SubscriptionStatusActive   SubscriptionStatus = "active"
	SubscriptionStatusTrialing SubscriptionStatus = "trialing"
	SubscriptionStatusPastDue  SubscriptionStatus = "past_due"
	SubscriptionStatusCanceled SubscriptionStatus = "canceled"
	SubscriptionStatusNone     SubscriptionStatus = "none"
)

type SubscriptionChangeReason string

const (
	SubscriptionChangeReasonInvoicePaid  SubscriptionChangeReason = "invoice_paid"
	SubscriptionChangeReasonProviderSync SubscriptionChangeReason = "provider_sync"
	SubscriptionChangeReasonCanceled     SubscriptionChangeReason = "canceled"
	SubscriptionChangeReasonAdmin        SubscriptionChangeReason = "admin"
)

// SubscriptionInfo is the user-facing subscription view.
type SubscriptionInfo struct {
	Status           SubscriptionStatus `json:"status"`
	CurrentPeriodEnd *time.Time         `json:"current_period_end"`
	Unlimited        bool               `json:"unlimited"`
}
