package subscription

import "go.uber.org/fx"

// Module exposes the Stripe subscription state service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
