package service

import (
	"context"
	"fmt"
	"sync"

	"okx_exec_proxy/internal/modules/config"
	okx "okx_exec_proxy/internal/modules/okx_client/service"

	"github.com/shopspring/decimal"
)

// stubExchange пишет каждый вызов и отдаёт заранее заданные ответы.
type stubExchange struct {
	mu    sync.Mutex
	calls []string

	positions []okx.PositionRow
	pending   []okx.PendingAlgo

	positionsErr error
	leverageErr  error
	orderErr     error
	algoErr      error
	pendingErr   error
	cancelErr    error
	amendErr     error

	leverageReqs []okx.LeverageRequest
	orderReqs    []okx.OrderRequest
	algoReqs     []okx.AlgoOrderRequest
	cancelReqs   [][]okx.CancelAlgoRequest
	amendReqs    []okx.AmendAlgoRequest
	pendingTypes [][]string
}

func (s *stubExchange) record(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, op)
}

func (s *stubExchange) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

func (s *stubExchange) Positions(_ context.Context, _, _ string) (*okx.Reply[okx.PositionRow], error) {
	s.record("Positions")
	if s.positionsErr != nil {
		return nil, s.positionsErr
	}
	return &okx.Reply[okx.PositionRow]{Code: "0", Data: s.positions, Raw: []byte(`{"code":"0"}`)}, nil
}

func (s *stubExchange) Balance(_ context.Context, ccy string) (*okx.Reply[okx.Balance], error) {
	s.record("Balance:" + ccy)
	return &okx.Reply[okx.Balance]{Code: "0", Data: []okx.Balance{{}}}, nil
}

func (s *stubExchange) SetLeverage(_ context.Context, req okx.LeverageRequest) (*okx.Reply[okx.LeverageAck], error) {
	s.record("SetLeverage")
	s.leverageReqs = append(s.leverageReqs, req)
	if s.leverageErr != nil {
		return nil, s.leverageErr
	}
	return &okx.Reply[okx.LeverageAck]{Code: "0", Data: []okx.LeverageAck{{InstID: req.InstID, Lever: req.Lever}}}, nil
}

func (s *stubExchange) PlaceOrder(_ context.Context, req okx.OrderRequest) (*okx.Reply[okx.OrderAck], error) {
	s.record("PlaceOrder")
	s.orderReqs = append(s.orderReqs, req)
	if s.orderErr != nil {
		return nil, s.orderErr
	}
	return &okx.Reply[okx.OrderAck]{Code: "0", Data: []okx.OrderAck{{OrdID: "ord-1", ClOrdID: req.ClOrdID, SCode: "0"}}}, nil
}

func (s *stubExchange) PlaceAlgo(_ context.Context, req okx.AlgoOrderRequest) (*okx.Reply[okx.AlgoAck], error) {
	s.record("PlaceAlgo")
	s.algoReqs = append(s.algoReqs, req)
	if s.algoErr != nil {
		return nil, s.algoErr
	}
	return &okx.Reply[okx.AlgoAck]{Code: "0", Data: []okx.AlgoAck{{AlgoID: fmt.Sprintf("algo-%d", len(s.algoReqs)), SCode: "0"}}}, nil
}

func (s *stubExchange) PendingAlgos(_ context.Context, _, _ string, ordTypes ...string) (*okx.Reply[okx.PendingAlgo], error) {
	s.record("PendingAlgos")
	s.pendingTypes = append(s.pendingTypes, ordTypes)
	if s.pendingErr != nil {
		return nil, s.pendingErr
	}
	return &okx.Reply[okx.PendingAlgo]{Code: "0", Data: s.pending}, nil
}

func (s *stubExchange) CancelAlgos(_ context.Context, reqs []okx.CancelAlgoRequest) (*okx.Reply[okx.AlgoAck], error) {
	s.record("CancelAlgos")
	s.cancelReqs = append(s.cancelReqs, reqs)
	if s.cancelErr != nil {
		return nil, s.cancelErr
	}
	acks := make([]okx.AlgoAck, 0, len(reqs))
	for _, r := range reqs {
		acks = append(acks, okx.AlgoAck{AlgoID: r.AlgoID, SCode: "0"})
	}
	return &okx.Reply[okx.AlgoAck]{Code: "0", Data: acks}, nil
}

func (s *stubExchange) AmendAlgo(_ context.Context, req okx.AmendAlgoRequest) (*okx.Reply[okx.AmendAck], error) {
	s.record("AmendAlgo")
	s.amendReqs = append(s.amendReqs, req)
	if s.amendErr != nil {
		return nil, s.amendErr
	}
	return &okx.Reply[okx.AmendAck]{Code: "0", Data: []okx.AmendAck{{AlgoID: req.AlgoID, SCode: "0"}}}, nil
}

type recordingNotifier struct {
	mu   sync.Mutex
	msgs []string
}

func (n *recordingNotifier) SendService(_ context.Context, format string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.msgs = append(n.msgs, fmt.Sprintf(format, args...))
}

func testBuilder() *IntentBuilder {
	return NewIntentBuilder(&config.Config{})
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func netRow(instID, pos string) okx.PositionRow {
	var d okx.Decimal
	d.Decimal = decimal.RequireFromString(pos)
	return okx.PositionRow{InstID: instID, PosSide: "net", MgnMode: "cross", Pos: d}
}

func hedgeRow(instID, posSide, pos string) okx.PositionRow {
	r := netRow(instID, pos)
	r.PosSide = posSide
	return r
}

func exchangeErr(code, msg string) error {
	return &okx.ExchangeError{Op: "test", HTTPStatus: 200, Code: code, Msg: msg,
		Raw: []byte(fmt.Sprintf(`{"code":%q,"msg":%q,"data":[]}`, code, msg))}
}
