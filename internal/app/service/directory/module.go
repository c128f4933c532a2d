package directory

import "go.uber.org/fx"

// Module exposes the RIA directory service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
