package handler

import (
	"strings"

	"okx_exec_proxy/internal/modules/config"
	okx "okx_exec_proxy/internal/modules/okx_client/service"
	"okx_exec_proxy/internal/modules/trading/service"

	"github.com/gin-gonic/gin"
)

type TradingHandler struct {
	Cfg        *config.Config
	Oracle     *service.Oracle
	Executor   *service.Executor
	Closer     *service.Closer
	Reconciler *service.Reconciler
}

func (h *TradingHandler) Register(r *gin.Engine) {
	r.GET("/ping", h.ping)
	r.GET("/debug/env", h.debugEnv)
	r.GET("/balance", h.balance)
	r.POST("/positions", h.positions)
	r.POST("/order", h.order)
	r.POST("/close", h.closePosition)
	r.POST("/protective", h.protective)
	// совместимость со старым прокси: /amend-tpsl всегда снимает висящие
	r.POST("/amend-tpsl", h.amendTpSl)
}

func (h *TradingHandler) ping(c *gin.Context) {
	Ok(c, gin.H{"ok": true, "paper": h.Cfg.OKX.Paper})
}

// debugEnv - с чем процесс реально торгует. Креды не отдаём: без них
// процесс не стартует, так что наличие знать незачем.
func (h *TradingHandler) debugEnv(c *gin.Context) {
	Ok(c, gin.H{
		"ok":            true,
		"env":           h.Cfg.Service.Env,
		"paper":         h.Cfg.OKX.Paper,
		"baseUrl":       h.Cfg.OKX.BaseURL,
		"useServerTime": h.Cfg.OKX.UseServerTime,
		"instType":      h.Cfg.Trading.InstType,
		"tdMode":        h.Cfg.Trading.TdMode,
		"balanceCcy":    h.Cfg.Trading.BalanceCcy,
	})
}

type balanceResponse struct {
	OK       bool                    `json:"ok"`
	Ccy      string                  `json:"ccy"`
	Response *okx.Reply[okx.Balance] `json:"response"`
}

func (h *TradingHandler) balance(c *gin.Context) {
	ccy := strings.TrimSpace(c.Query("ccy"))
	if ccy == "" {
		ccy = h.Cfg.Trading.BalanceCcy
	}
	r, err := h.Oracle.Balance(c.Request.Context(), ccy)
	if err != nil {
		Fail(c, err, nil)
		return
	}
	Ok(c, balanceResponse{OK: true, Ccy: ccy, Response: r})
}

type positionsResponse struct {
	OK       bool                        `json:"ok"`
	Open     bool                        `json:"open"`
	NetPosSz string                      `json:"netPosSz"`
	PosSide  string                      `json:"posSide,omitempty"`
	Hedge    bool                        `json:"hedge"`
	Sample   *okx.PositionRow            `json:"sample"`
	Raw      *okx.Reply[okx.PositionRow] `json:"raw"`
}

func (h *TradingHandler) positions(c *gin.Context) {
	var req positionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	pos, err := h.Oracle.NetPosition(c.Request.Context(), req.InstType, strings.TrimSpace(req.InstID))
	if err != nil {
		Fail(c, err, nil)
		return
	}
	Ok(c, positionsResponse{
		OK:       true,
		Open:     !pos.Flat(),
		NetPosSz: pos.Size.String(),
		PosSide:  pos.PosSide,
		Hedge:    pos.Hedge,
		Sample:   pos.Sample(),
		Raw:      pos.Raw,
	})
}

type orderResponse struct {
	OK bool `json:"ok"`
	*service.OpenResult
}

func (h *TradingHandler) order(c *gin.Context) {
	var req orderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in, err := req.intent()
	if err != nil {
		Fail(c, err, nil)
		return
	}
	res, err := h.Executor.OpenPosition(c.Request.Context(), in)
	if err != nil {
		Fail(c, err, partial(res))
		return
	}
	Ok(c, orderResponse{OK: true, OpenResult: res})
}

type closeResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
	*service.CloseResult
}

func (h *TradingHandler) closePosition(c *gin.Context) {
	var req closeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	res, err := h.Closer.ClosePosition(c.Request.Context(), req.intent())
	if err != nil {
		Fail(c, err, partial(res))
		return
	}
	out := closeResponse{OK: true, CloseResult: res}
	if res.NoOp {
		out.Message = "no open position"
	}
	Ok(c, out)
}

type protectiveResponse struct {
	OK bool `json:"ok"`
	*service.ProtectiveResult
}

func (h *TradingHandler) protective(c *gin.Context) {
	h.reconcile(c, false)
}

func (h *TradingHandler) amendTpSl(c *gin.Context) {
	h.reconcile(c, true)
}

func (h *TradingHandler) reconcile(c *gin.Context, forceCancel bool) {
	var req protectiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	in := req.intent()
	if forceCancel {
		in.CancelExisting = true
	}
	res, err := h.Reconciler.SetProtective(c.Request.Context(), in)
	if err != nil {
		Fail(c, err, partial(res))
		return
	}
	Ok(c, protectiveResponse{OK: true, ProtectiveResult: res})
}

// partial - типизированный nil в any не должен превращаться в "result": null.
func partial[T any](res *T) any {
	if res == nil {
		return nil
	}
	return res
}
