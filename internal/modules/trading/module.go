package trading

import (
	okx "okx_exec_proxy/internal/modules/okx_client/service"
	"okx_exec_proxy/internal/modules/trading/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("trading",
		// *okx.Client -> service.Exchange
		fx.Provide(
			func(c *okx.Client) service.Exchange {
				return c
			},
		),
		fx.Provide(
			service.NewIntentBuilder,
			service.NewOracle,
			service.NewExecutor,
			service.NewCloser,
			service.NewReconciler,
		),
	)
}
