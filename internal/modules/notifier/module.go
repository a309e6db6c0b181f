package notifier

import (
	"okx_exec_proxy/internal/modules/notifier/service"
	trading "okx_exec_proxy/internal/modules/trading/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("notifier",
		fx.Provide(
			service.NewTelegram,
		),
		// Адаптер: *service.Telegram -> trading.Notifier
		fx.Provide(
			func(t *service.Telegram) trading.Notifier {
				return t
			},
		),
	)
}
