package health

import (
	"context"
	"net/http"

	"okx_exec_proxy/internal/modules/health/service"
	"okx_exec_proxy/internal/modules/okx_client"
	okx "okx_exec_proxy/internal/modules/okx_client/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

func Register(r *gin.Engine, state *service.State) {
	r.GET("/livez", func(c *gin.Context) {
		// liveness: процесс жив
		c.String(http.StatusOK, "ok")
	})

	r.GET("/readyz", func(c *gin.Context) {
		// readiness: сервис готов обслуживать трафик
		if !state.Ready() {
			c.String(http.StatusServiceUnavailable, "not ready")
			return
		}
		c.String(http.StatusOK, "ready")
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, state.Snapshot())
	})
}

func Module() fx.Option {
	return fx.Module("health",
		fx.Provide(
			service.NewState,
			fx.Annotate(
				func(s *service.State) okx.CallObserver { return s },
				fx.ResultTags(okx_client.ObserverGroup),
			),
		),
		fx.Invoke(
			Register,
			func(lc fx.Lifecycle, state *service.State) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						state.SetReady(true)
						return nil
					},
					OnStop: func(ctx context.Context) error {
						state.SetReady(false)
						return nil
					},
				})
			},
		),
	)
}
