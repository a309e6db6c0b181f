package journal

import (
	"context"

	"okx_exec_proxy/internal/modules/config"
	"okx_exec_proxy/internal/modules/journal/service"
	"okx_exec_proxy/internal/modules/okx_client"
	okx "okx_exec_proxy/internal/modules/okx_client/service"
	"okx_exec_proxy/pkg/db"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newJournal(pg *db.PgTxManager, cfg *config.Config, log *zap.Logger) *service.Journal {
	// nil *PgTxManager в интерфейсе - не nil, поэтому явно
	var tx db.TxManager
	if pg != nil {
		tx = pg
	}
	return service.NewJournal(tx, cfg.Journal.Buffer, log)
}

func Module() fx.Option {
	return fx.Module("journal",
		fx.Provide(
			newJournal,
			fx.Annotate(
				func(j *service.Journal) okx.CallObserver { return j },
				fx.ResultTags(okx_client.ObserverGroup),
			),
		),
		fx.Invoke(func(lc fx.Lifecycle, j *service.Journal) {
			lc.Append(fx.Hook{
				OnStart: func(ctx context.Context) error {
					if err := j.EnsureSchema(ctx); err != nil {
						return err
					}
					j.Start()
					return nil
				},
				OnStop: func(ctx context.Context) error {
					j.Stop()
					return nil
				},
			})
		}),
	)
}
