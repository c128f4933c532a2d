package webhook

import "go.uber.org/fx"

// Module exposes the billing webhook handler via Fx.
var Module = fx.Options(
	fx.Provide(NewStripeHandler),
)
