package service

import (
	"context"

	okx "okx_exec_proxy/internal/modules/okx_client/service"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// OpenResult - что ушло и что вернулось. Плечо и защитный ордер best-effort:
// их отказ лежит в *Warning, основной ордер при этом остаётся.
type OpenResult struct {
	Request           okx.OrderRequest            `json:"request"`
	Order             *okx.Reply[okx.OrderAck]    `json:"response"`
	Leverage          *okx.Reply[okx.LeverageAck] `json:"leverage,omitempty"`
	LeverageWarning   *Warning                    `json:"leverageWarning,omitempty"`
	ProtectiveRequest *okx.AlgoOrderRequest       `json:"protectiveRequest,omitempty"`
	Protective        *okx.Reply[okx.AlgoAck]     `json:"protective,omitempty"`
	ProtectiveWarning *Warning                    `json:"protectiveWarning,omitempty"`
}

type Executor struct {
	ex       Exchange
	builder  *IntentBuilder
	notifier Notifier
	log      *zap.Logger
}

func NewExecutor(ex Exchange, builder *IntentBuilder, notifier Notifier, log *zap.Logger) *Executor {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Executor{ex: ex, builder: builder, notifier: notifier, log: log.Named("executor")}
}

// OpenPosition: плечо (best-effort) -> основной ордер -> защитный ордер.
// Отката нет: если защитный не встал, основной уже на бирже.
func (e *Executor) OpenPosition(ctx context.Context, in OrderIntent) (*OpenResult, error) {
	req, err := e.builder.Order(in, false)
	if err != nil {
		return nil, err
	}
	res := &OpenResult{Request: req}

	var protReq *okx.AlgoOrderRequest
	if !in.Protective.Empty() {
		pr, err := e.builder.Protective(in.InstID, req.TdMode, in.PosSide, in.Side, in.Size, in.Protective)
		if err != nil {
			return nil, err
		}
		protReq = &pr
	}

	if in.Leverage.Valid {
		lev, err := e.builder.Leverage(in)
		if err != nil {
			return nil, err
		}
		ack, err := e.ex.SetLeverage(ctx, lev)
		if err != nil {
			res.LeverageWarning = newWarning("set-leverage failed", err)
			e.log.Warn("set leverage failed, placing order anyway",
				zap.String("instId", in.InstID), zap.String("lever", lev.Lever), zap.Error(err))
			e.notifier.SendService(ctx, "⚠️ %s: set-leverage %s failed: %v", in.InstID, lev.Lever, err)
		} else {
			res.Leverage = ack
		}
	}

	ord, err := e.ex.PlaceOrder(ctx, req)
	if err != nil {
		return res, errors.Wrapf(err, "place order %s %s %s", req.InstID, req.Side, req.Sz)
	}
	res.Order = ord
	e.log.Info("order placed",
		zap.String("instId", req.InstID), zap.String("side", req.Side),
		zap.String("sz", req.Sz), zap.String("ordType", req.OrdType), zap.String("clOrdId", req.ClOrdID))

	if protReq == nil {
		return res, nil
	}
	res.ProtectiveRequest = protReq
	algo, err := e.ex.PlaceAlgo(ctx, *protReq)
	if err != nil {
		res.ProtectiveWarning = newWarning("protective order failed", err)
		e.log.Warn("protective order failed, primary order stays",
			zap.String("instId", protReq.InstID), zap.String("ordType", protReq.OrdType), zap.Error(err))
		e.notifier.SendService(ctx, "⚠️ %s: %s protective not placed after %s %s: %v",
			protReq.InstID, protReq.OrdType, req.Side, req.Sz, err)
		return res, nil
	}
	res.Protective = algo
	return res, nil
}
