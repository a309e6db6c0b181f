package http_api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"okx_exec_proxy/internal/modules/config"
	"okx_exec_proxy/internal/modules/http_api/handler"
	"okx_exec_proxy/internal/modules/trading/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func NewEngine(cfg *config.Config, log *zap.Logger) *gin.Engine {
	if !cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestLog(log.Named("http")))
	return r
}

func NewTradingHandler(
	cfg *config.Config,
	oracle *service.Oracle,
	executor *service.Executor,
	closer *service.Closer,
	reconciler *service.Reconciler,
) *handler.TradingHandler {
	return &handler.TradingHandler{
		Cfg:        cfg,
		Oracle:     oracle,
		Executor:   executor,
		Closer:     closer,
		Reconciler: reconciler,
	}
}

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http listening", zap.String("addr", srv.Addr), zap.Bool("paper", cfg.OKX.Paper))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("http_api",
		fx.Provide(
			NewEngine,
			NewTradingHandler,
		),
		fx.Invoke(
			func(r *gin.Engine, h *handler.TradingHandler) {
				h.Register(r)
			},
			RunHTTP,
		),
	)
}
