package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riahunter/backend/pkg/types"
)

func TestCreditPlanLookups(t *testing.T) {
	cfg := &Config{CreditPlans: []*types.CreditPlan{
		{ID: "starter", StripePriceID: "price_starter", Credits: 100, Recurring: true},
		{ID: "pro", StripePriceID: "price_pro", Credits: 500, Recurring: true},
	}}

	assert.Equal(t, int64(500), cfg.GetCreditPlanByID("pro").Credits)
	assert.Nil(t, cfg.GetCreditPlanByID("unknown"))

	plan, err := cfg.GetCreditPlanByPriceID("price_starter")
	require.NoError(t, err)
	assert.Equal(t, "starter", plan.ID)

	_, err = cfg.GetCreditPlanByPriceID("price_unknown")
	require.Error(t, err)
}

func TestNew_AppliesDefaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, 8888, cfg.Server.Port)
	assert.Equal(t, int64(1), cfg.Credits.SearchCost)
	assert.False(t, cfg.RateLimit.Enabled)
}
