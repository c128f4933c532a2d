package support

import "go.uber.org/fx"

// Module exposes the support/debug service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
