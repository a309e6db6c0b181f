package service

import (
	"context"
	"strings"

	okx "okx_exec_proxy/internal/modules/okx_client/service"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type CloseIntent struct {
	InstID   string
	InstType string
	TdMode   string
	All      bool
	Size     decimal.NullDecimal
	PosSide  string
}

// CloseResult - NoOp=true, если закрывать было нечего. Это успех, не ошибка.
type CloseResult struct {
	NoOp     bool                     `json:"noop"`
	NetPosSz string                   `json:"netPosSz"`
	Request  *okx.OrderRequest        `json:"request,omitempty"`
	Response *okx.Reply[okx.OrderAck] `json:"response,omitempty"`
}

type Closer struct {
	oracle   *Oracle
	ex       Exchange
	builder  *IntentBuilder
	notifier Notifier
	log      *zap.Logger
}

func NewCloser(oracle *Oracle, ex Exchange, builder *IntentBuilder, notifier Notifier, log *zap.Logger) *Closer {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Closer{oracle: oracle, ex: ex, builder: builder, notifier: notifier, log: log.Named("closer")}
}

// ClosePosition закрывает reduce-only маркетом против нетто-позиции.
// Размер: весь |net| при All или без sz, иначе sz клиента.
// posSide long/short в hedge-режиме закрывает именно эту ногу: сторона
// берётся от ноги, размер не больше ноги. В hedge OKX не смотрит на
// reduceOnly, так что сторона и posSide обязаны совпадать.
func (c *Closer) ClosePosition(ctx context.Context, in CloseIntent) (*CloseResult, error) {
	if !in.All && in.Size.Valid && !in.Size.Decimal.IsPositive() {
		return nil, &ValidationError{Field: "sz", Reason: "must be > 0"}
	}
	leg := strings.ToLower(strings.TrimSpace(in.PosSide))
	switch leg {
	case "", "net", posSideLong, posSideShort:
	default:
		return nil, &ValidationError{Field: "posSide", Reason: "must be long, short or net"}
	}

	pos, err := c.oracle.NetPosition(ctx, in.InstType, in.InstID)
	if err != nil {
		return nil, err
	}
	res := &CloseResult{NetPosSz: pos.Size.String()}

	side, size, posSide := pos.Side().Opposite(), pos.Abs(), pos.PosSide
	switch {
	case leg == posSideLong || leg == posSideShort:
		if !pos.Hedge && !pos.Flat() {
			return nil, &ValidationError{Field: "posSide", Reason: "long/short is only valid in hedge mode"}
		}
		side, size, posSide = SideSell, pos.Leg(leg), leg
		if leg == posSideShort {
			side = SideBuy
		}
	case leg == "net" && pos.Hedge:
		return nil, &ValidationError{Field: "posSide", Reason: "net is not valid in hedge mode"}
	}

	if size.IsZero() {
		res.NoOp = true
		c.log.Info("close: already flat", zap.String("instId", in.InstID), zap.String("posSide", leg))
		return res, nil
	}
	if !in.All && in.Size.Valid && in.Size.Decimal.LessThan(size) {
		size = in.Size.Decimal
	}
	tdMode := in.TdMode
	if tdMode == "" {
		tdMode = pos.MarginMode
	}

	req, err := c.builder.Order(OrderIntent{
		InstID:  in.InstID,
		Side:    side,
		Size:    size,
		OrdType: "market",
		TdMode:  tdMode,
		PosSide: posSide,
	}, true)
	if err != nil {
		return nil, err
	}
	res.Request = &req

	ord, err := c.ex.PlaceOrder(ctx, req)
	if err != nil {
		return res, errors.Wrapf(err, "close %s %s %s", req.InstID, req.Side, req.Sz)
	}
	res.Response = ord

	c.log.Info("position closed",
		zap.String("instId", req.InstID), zap.String("net", res.NetPosSz),
		zap.String("side", req.Side), zap.String("sz", req.Sz))
	c.notifier.SendService(ctx, "✅ %s closed: net %s, %s %s reduce-only", req.InstID, res.NetPosSz, req.Side, req.Sz)
	return res, nil
}
