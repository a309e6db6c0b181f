package service

import (
	"context"

	okx "okx_exec_proxy/internal/modules/okx_client/service"

	"github.com/pkg/errors"
)

// Exchange - то, что торговым сервисам нужно от OKX-клиента.
type Exchange interface {
	Positions(ctx context.Context, instType, instID string) (*okx.Reply[okx.PositionRow], error)
	Balance(ctx context.Context, ccy string) (*okx.Reply[okx.Balance], error)
	SetLeverage(ctx context.Context, req okx.LeverageRequest) (*okx.Reply[okx.LeverageAck], error)
	PlaceOrder(ctx context.Context, req okx.OrderRequest) (*okx.Reply[okx.OrderAck], error)
	PlaceAlgo(ctx context.Context, req okx.AlgoOrderRequest) (*okx.Reply[okx.AlgoAck], error)
	PendingAlgos(ctx context.Context, instType, instID string, ordTypes ...string) (*okx.Reply[okx.PendingAlgo], error)
	CancelAlgos(ctx context.Context, reqs []okx.CancelAlgoRequest) (*okx.Reply[okx.AlgoAck], error)
	AmendAlgo(ctx context.Context, req okx.AmendAlgoRequest) (*okx.Reply[okx.AmendAck], error)
}

// Notifier - сервисный чат. Реализация может быть пустой.
type Notifier interface {
	SendService(ctx context.Context, format string, args ...any)
}

type nopNotifier struct{}

func (nopNotifier) SendService(context.Context, string, ...any) {}

// Warning - мягкая ошибка шага, который не отменяет успех операции.
type Warning struct {
	Message string `json:"warn"`
	Reason  any    `json:"reason"`
}

func newWarning(msg string, err error) *Warning {
	var xerr *okx.ExchangeError
	if errors.As(err, &xerr) {
		return &Warning{Message: msg, Reason: xerr.Payload()}
	}
	return &Warning{Message: msg, Reason: err.Error()}
}
