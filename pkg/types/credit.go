package types

// CreditSource is the closed set of ledger entry origins. Modeled as a
// dedicated type so a typo cannot silently create a new category.
type CreditSource string

const (
	CreditSourceUsage        CreditSource = "usage"
	CreditSourceSubscription CreditSource = "subscription"
	CreditSourceCoupon       CreditSource = "coupon"
	CreditSourceAdminAdjust  CreditSource = "admin_adjust"
	CreditSourceRefund       CreditSource = "refund"
	CreditSourceMigration    CreditSource = "migration"
)

var knownCreditSources = map[CreditSource]struct{}{
	CreditSourceUsage:        {},
	CreditSourceSubscription: {},
	CreditSourceCoupon:       {},
	CreditSourceAdminAdjust:  {},
	CreditSourceRefund:       {},
	CreditSourceMigration:    {},
}

func (s CreditSource) Valid() bool {
	_, ok := knownCreditSources[s]
	return ok
}
