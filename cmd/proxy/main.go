package main

import (
	"context"

	"okx_exec_proxy/internal/modules/config"
	"okx_exec_proxy/internal/modules/health"
	"okx_exec_proxy/internal/modules/http_api"
	"okx_exec_proxy/internal/modules/journal"
	"okx_exec_proxy/internal/modules/notifier"
	"okx_exec_proxy/internal/modules/okx_client"
	"okx_exec_proxy/internal/modules/postgres"
	"okx_exec_proxy/internal/modules/trading"
	"okx_exec_proxy/pkg/logger"
	"okx_exec_proxy/pkg/tracing"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	logger.SetServiceName(cfg.Service.Name)
	return logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Encoding:    cfg.Log.Encoding,
		Development: cfg.Log.Development,
	})
}

func initTracing(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) error {
	if !cfg.Tracing.Enabled {
		return nil
	}
	tracing.SetServiceName(cfg.Service.Name)
	_, closeTracer, err := tracing.InitTracer(tracing.Config{Host: cfg.Tracing.Host, Port: cfg.Tracing.Port})
	if err != nil {
		return err
	}
	log.Info("jaeger tracing enabled", zap.String("host", cfg.Tracing.Host), zap.Int("port", cfg.Tracing.Port))
	lc.Append(fx.StopHook(closeTracer))
	return nil
}

func logConfig(cfg *config.Config, log *zap.Logger) {
	out, err := cfg.Redacted()
	if err != nil {
		log.Warn("config render failed", zap.Error(err))
		return
	}
	log.Info("effective config\n" + string(out))
}

func options() []fx.Option {
	return []fx.Option{
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
			newLogger,
		),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		config.Module(),
		fx.Invoke(logConfig, initTracing),
		postgres.Module(),
		journal.Module(),
		health.Module(),
		notifier.Module(),
		okx_client.Module(),
		trading.Module(),
		http_api.Module(),
	}
}

func main() {
	app := fx.New(options()...)
	if err := app.Err(); err != nil {
		logger.Fatal("okx_exec_proxy: build app: %v", err)
	}
	app.Run()
	logger.Info("okx_exec_proxy stopped")
}
