package ratelimit

import "go.uber.org/fx"

// Module exposes the search rate limiter via Fx.
var Module = fx.Options(
	fx.Provide(NewSearchLimiter),
)
