package okx_client

import (
	"context"
	"time"

	"okx_exec_proxy/internal/modules/config"
	"okx_exec_proxy/internal/modules/okx_client/service"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// ObserverGroup - fx-группа наблюдателей за вызовами биржи (журнал, health).
const ObserverGroup = `group:"okx_observers"`

type clientParams struct {
	fx.In

	Cfg       *config.Config
	Signer    *service.Signer
	Clock     service.Clock
	Log       *zap.Logger
	Observers []service.CallObserver `group:"okx_observers"`
}

func newSigner(cfg *config.Config) (*service.Signer, error) {
	return service.NewSigner(cfg.OKX.SecretKey)
}

func newClock(cfg *config.Config) (service.Clock, *service.ServerClock) {
	if !cfg.OKX.UseServerTime {
		return service.LocalClock{}, nil
	}
	sc := service.NewServerClock()
	return sc, sc
}

func newClient(p clientParams) (*service.Client, error) {
	return service.NewClient(p.Cfg, p.Signer, p.Clock, p.Log, p.Observers...)
}

// syncClock подтягивает смещение часов на старте. Не получилось - работаем
// по локальным часам, это не повод не подниматься.
func syncClock(lc fx.Lifecycle, sc *service.ServerClock, c *service.Client, log *zap.Logger) {
	if sc == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			syncCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			if err := sc.Sync(syncCtx, c.ServerTime); err != nil {
				log.Warn("okx server time sync failed, using local clock", zap.Error(err))
				return nil
			}
			log.Info("okx server time synced", zap.Duration("offset", sc.Offset()))
			return nil
		},
	})
}

func Module() fx.Option {
	return fx.Module("okx_client",
		fx.Provide(
			newSigner,
			newClock,
			newClient,
		),
		fx.Invoke(syncClock),
	)
}
