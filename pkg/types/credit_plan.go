package types

// CreditPlan maps a billing provider price to the number of credits it grants.
// Plans are declared in configuration, not in the database.
type CreditPlan struct {
	ID            string `json:"id" mapstructure:"id"`
	StripePriceID string `json:"stripe_price_id" mapstructure:"stripe_price_id"`
	Credits       int64  `json:"credits" mapstructure:"credits"`
	// Recurring is true for subscription plans that grant credits every
	// billing period, false for one-time credit packs.
	Recurring bool `json:"recurring" mapstructure:"recurring"`
}
