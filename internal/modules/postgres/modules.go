package postgres

import (
	"context"
	"fmt"

	"okx_exec_proxy/internal/modules/config"
	"okx_exec_proxy/pkg/db"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module поднимает пул только если задан db_dsn. Иначе отдаёт nil,
// и журнал работает вхолостую.
func Module() fx.Option {
	return fx.Module("postgres",
		fx.Provide(
			func(ctx context.Context, lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*db.PgTxManager, error) {
				if cfg.DB == "" {
					log.Info("db_dsn is empty, journal disabled")
					return nil, nil
				}
				poolMaster, err := db.NewPool(ctx, db.PoolConfig{
					DSN:      cfg.DB,
					MaxConns: 4,
				})
				if err != nil {
					return nil, fmt.Errorf("failed to create poolMaster: %w", err)
				}

				err = poolMaster.Ping(ctx)
				if err != nil {
					poolMaster.Close()
					return nil, err
				}

				m := db.NewPgTxManager(poolMaster)
				lc.Append(fx.StopHook(m.Close))
				return m, nil
			},
		),
	)
}
