package service

import (
	"context"
	"testing"

	okx "okx_exec_proxy/internal/modules/okx_client/service"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServices(ex *stubExchange, n Notifier) (*Executor, *Closer, *Reconciler) {
	b := testBuilder()
	o := NewOracle(ex, b)
	return NewExecutor(ex, b, n, nil), NewCloser(o, ex, b, n, nil), NewReconciler(o, ex, b, n, nil)
}

func TestNetOf(t *testing.T) {
	tests := []struct {
		name    string
		rows    []okx.PositionRow
		want    string
		posSide string
		hedge   bool
	}{
		{name: "empty", want: "0"},
		{name: "net long", rows: []okx.PositionRow{netRow("X", "2.5")}, want: "2.5"},
		{name: "net short", rows: []okx.PositionRow{netRow("X", "-3")}, want: "-3"},
		{name: "sums rows", rows: []okx.PositionRow{netRow("X", "1"), netRow("X", "0.5")}, want: "1.5"},
		{name: "other instrument skipped", rows: []okx.PositionRow{netRow("X", "1"), netRow("Y", "7")}, want: "1"},
		{name: "hedge long wins", rows: []okx.PositionRow{hedgeRow("X", "long", "3"), hedgeRow("X", "short", "2")}, want: "1", posSide: "long", hedge: true},
		{name: "hedge short wins", rows: []okx.PositionRow{hedgeRow("X", "long", "1"), hedgeRow("X", "short", "4")}, want: "-3", posSide: "short", hedge: true},
		{name: "hedge flat", rows: []okx.PositionRow{hedgeRow("X", "long", "2"), hedgeRow("X", "short", "2")}, want: "0", hedge: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NetOf("X", &okx.Reply[okx.PositionRow]{Data: tt.rows})
			assert.True(t, dec(tt.want).Equal(p.Size), "got %s", p.Size)
			assert.Equal(t, tt.posSide, p.PosSide)
			assert.Equal(t, tt.hedge, p.Hedge)
		})
	}
}

func TestClose_SideIsInverseOfNet(t *testing.T) {
	for net, side := range map[string]string{"2.5": "sell", "-1.25": "buy", "0.001": "sell", "-40": "buy"} {
		ex := &stubExchange{positions: []okx.PositionRow{netRow("X", net)}}
		_, closer, _ := newServices(ex, nil)

		res, err := closer.ClosePosition(context.Background(), CloseIntent{InstID: "X", All: true})
		require.NoError(t, err, net)
		require.Len(t, ex.orderReqs, 1, net)
		req := ex.orderReqs[0]
		assert.Equal(t, side, req.Side, net)
		assert.Equal(t, dec(net).Abs().String(), req.Sz, net)
		assert.True(t, req.ReduceOnly, net)
		assert.Equal(t, "market", req.OrdType, net)
		assert.False(t, res.NoOp, net)
	}
}

func TestClose_FlatIsNoOp(t *testing.T) {
	ex := &stubExchange{positions: []okx.PositionRow{netRow("X", "0")}}
	n := &recordingNotifier{}
	_, closer, _ := newServices(ex, n)

	res, err := closer.ClosePosition(context.Background(), CloseIntent{InstID: "X", All: true})
	require.NoError(t, err)
	assert.True(t, res.NoOp)
	assert.Nil(t, res.Request)
	assert.Equal(t, []string{"Positions"}, ex.Calls())
	assert.Empty(t, n.msgs)
}

func TestClose_ScenarioPlus2_5(t *testing.T) {
	ex := &stubExchange{positions: []okx.PositionRow{netRow("X", "2.5")}}
	n := &recordingNotifier{}
	_, closer, _ := newServices(ex, n)

	res, err := closer.ClosePosition(context.Background(), CloseIntent{InstID: "X", All: true})
	require.NoError(t, err)
	assert.Equal(t, "2.5", res.NetPosSz)
	assert.Equal(t, okx.OrderRequest{
		InstID: "X", TdMode: "cross", Side: "sell", OrdType: "market", Sz: "2.5",
		ReduceOnly: true, ClOrdID: res.Request.ClOrdID,
	}, *res.Request)
	assert.Len(t, res.Request.ClOrdID, 32)
	assert.Len(t, n.msgs, 1)
}

func TestClose_CallerSize(t *testing.T) {
	ex := &stubExchange{positions: []okx.PositionRow{netRow("X", "-5")}}
	_, closer, _ := newServices(ex, nil)

	_, err := closer.ClosePosition(context.Background(), CloseIntent{InstID: "X", Size: nullDec("2")})
	require.NoError(t, err)
	assert.Equal(t, "2", ex.orderReqs[0].Sz)
	assert.Equal(t, "buy", ex.orderReqs[0].Side)

	// all перекрывает sz
	_, err = closer.ClosePosition(context.Background(), CloseIntent{InstID: "X", All: true, Size: nullDec("2")})
	require.NoError(t, err)
	assert.Equal(t, "5", ex.orderReqs[1].Sz)
}

func TestClose_NonPositiveSizeRejectedLocally(t *testing.T) {
	ex := &stubExchange{positions: []okx.PositionRow{netRow("X", "1")}}
	_, closer, _ := newServices(ex, nil)

	_, err := closer.ClosePosition(context.Background(), CloseIntent{InstID: "X", Size: nullDec("0")})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Empty(t, ex.Calls())
}

func TestClose_HedgeModeCarriesPosSide(t *testing.T) {
	ex := &stubExchange{positions: []okx.PositionRow{hedgeRow("X", "short", "3")}}
	_, closer, _ := newServices(ex, nil)

	_, err := closer.ClosePosition(context.Background(), CloseIntent{InstID: "X"})
	require.NoError(t, err)
	assert.Equal(t, "buy", ex.orderReqs[0].Side)
	assert.Equal(t, "short", ex.orderReqs[0].PosSide)
	assert.Equal(t, "3", ex.orderReqs[0].Sz)
}

func TestClose_HedgeLegSideFollowsPosSide(t *testing.T) {
	// long 3 / short 2: нетто long 1, но клиент закрывает short-ногу
	ex := &stubExchange{positions: []okx.PositionRow{hedgeRow("X", "long", "3"), hedgeRow("X", "short", "2")}}
	_, closer, _ := newServices(ex, nil)

	res, err := closer.ClosePosition(context.Background(), CloseIntent{InstID: "X", PosSide: "short"})
	require.NoError(t, err)
	require.Len(t, ex.orderReqs, 1)
	assert.Equal(t, "buy", ex.orderReqs[0].Side)
	assert.Equal(t, "short", ex.orderReqs[0].PosSide)
	assert.Equal(t, "2", ex.orderReqs[0].Sz)
	assert.Equal(t, "1", res.NetPosSz)

	_, err = closer.ClosePosition(context.Background(), CloseIntent{InstID: "X", PosSide: "LONG"})
	require.NoError(t, err)
	assert.Equal(t, "sell", ex.orderReqs[1].Side)
	assert.Equal(t, "long", ex.orderReqs[1].PosSide)
	assert.Equal(t, "3", ex.orderReqs[1].Sz)
}

func TestClose_SizeCappedAtLeg(t *testing.T) {
	ex := &stubExchange{positions: []okx.PositionRow{hedgeRow("X", "long", "3"), hedgeRow("X", "short", "2")}}
	_, closer, _ := newServices(ex, nil)

	_, err := closer.ClosePosition(context.Background(), CloseIntent{InstID: "X", PosSide: "short", Size: nullDec("5")})
	require.NoError(t, err)
	assert.Equal(t, "2", ex.orderReqs[0].Sz)

	_, err = closer.ClosePosition(context.Background(), CloseIntent{InstID: "X", PosSide: "short", Size: nullDec("0.5")})
	require.NoError(t, err)
	assert.Equal(t, "0.5", ex.orderReqs[1].Sz)
	assert.Equal(t, "buy", ex.orderReqs[1].Side)

	// в net-режиме sz тоже не больше |net|
	ex = &stubExchange{positions: []okx.PositionRow{netRow("X", "-1")}}
	_, closer, _ = newServices(ex, nil)
	_, err = closer.ClosePosition(context.Background(), CloseIntent{InstID: "X", Size: nullDec("4")})
	require.NoError(t, err)
	assert.Equal(t, "1", ex.orderReqs[0].Sz)
}

func TestClose_EmptyLegIsNoOp(t *testing.T) {
	ex := &stubExchange{positions: []okx.PositionRow{hedgeRow("X", "long", "3")}}
	_, closer, _ := newServices(ex, nil)

	res, err := closer.ClosePosition(context.Background(), CloseIntent{InstID: "X", PosSide: "short"})
	require.NoError(t, err)
	assert.True(t, res.NoOp)
	assert.Equal(t, []string{"Positions"}, ex.Calls())
}

func TestClose_PosSideRejectedBeforeOrder(t *testing.T) {
	tests := []struct {
		name    string
		rows    []okx.PositionRow
		posSide string
		calls   []string
	}{
		{name: "unknown value", rows: []okx.PositionRow{netRow("X", "1")}, posSide: "up"},
		{name: "leg in net mode", rows: []okx.PositionRow{netRow("X", "1")}, posSide: "short", calls: []string{"Positions"}},
		{name: "net in hedge mode", rows: []okx.PositionRow{hedgeRow("X", "long", "1")}, posSide: "net", calls: []string{"Positions"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ex := &stubExchange{positions: tt.rows}
			_, closer, _ := newServices(ex, nil)

			_, err := closer.ClosePosition(context.Background(), CloseIntent{InstID: "X", PosSide: tt.posSide})
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "%v", err)
			assert.Equal(t, "posSide", verr.Field)
			assert.Empty(t, ex.orderReqs)
			if tt.calls == nil {
				assert.Empty(t, ex.Calls())
			} else {
				assert.Equal(t, tt.calls, ex.Calls())
			}
		})
	}
}

func TestOpen_ScenarioOCO(t *testing.T) {
	ex := &stubExchange{}
	exec, _, _ := newServices(ex, nil)

	res, err := exec.OpenPosition(context.Background(), OrderIntent{
		InstID: "X", Side: SideBuy, Size: dec("1"),
		Protective: ProtectiveSpec{TpTriggerPx: nullDec("100"), SlTriggerPx: nullDec("90")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"PlaceOrder", "PlaceAlgo"}, ex.Calls())

	assert.Equal(t, "buy", ex.orderReqs[0].Side)
	assert.Equal(t, "1", ex.orderReqs[0].Sz)
	assert.False(t, ex.orderReqs[0].ReduceOnly)

	algo := ex.algoReqs[0]
	assert.Equal(t, "sell", algo.Side)
	assert.Equal(t, okx.AlgoOCO, algo.OrdType)
	assert.Equal(t, "1", algo.Sz)
	assert.True(t, algo.ReduceOnly)
	assert.Equal(t, "100", algo.TpTriggerPx)
	assert.Equal(t, "90", algo.SlTriggerPx)
	assert.Equal(t, "-1", algo.TpOrdPx)
	assert.Equal(t, "-1", algo.SlOrdPx)
	assert.Equal(t, "last", algo.TpTriggerPxType)

	assert.NotNil(t, res.Protective)
	assert.Nil(t, res.LeverageWarning)
	assert.Nil(t, res.ProtectiveWarning)
}

func TestOpen_SingleTriggerIsConditional(t *testing.T) {
	ex := &stubExchange{}
	exec, _, _ := newServices(ex, nil)

	_, err := exec.OpenPosition(context.Background(), OrderIntent{
		InstID: "X", Side: SideSell, Size: dec("3"),
		Protective: ProtectiveSpec{SlTriggerPx: nullDec("120"), SlOrdPx: nullDec("121"), TriggerPxType: "mark"},
	})
	require.NoError(t, err)
	algo := ex.algoReqs[0]
	assert.Equal(t, okx.AlgoConditional, algo.OrdType)
	assert.Equal(t, "buy", algo.Side)
	assert.Equal(t, "121", algo.SlOrdPx)
	assert.Equal(t, "mark", algo.SlTriggerPxType)
	assert.Empty(t, algo.TpTriggerPx)
}

func TestOpen_LeverageFailureIsWarning(t *testing.T) {
	ex := &stubExchange{leverageErr: exchangeErr("59000", "Setting failed")}
	n := &recordingNotifier{}
	exec, _, _ := newServices(ex, n)

	res, err := exec.OpenPosition(context.Background(), OrderIntent{
		InstID: "X", Side: SideBuy, Size: dec("1"), Leverage: nullDec("10"), TdMode: "isolated",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"SetLeverage", "PlaceOrder"}, ex.Calls())
	require.NotNil(t, res.LeverageWarning)
	reason, ok := res.LeverageWarning.Reason.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "59000", reason["code"])
	assert.NotNil(t, res.Order)
	assert.Equal(t, "isolated", ex.leverageReqs[0].MgnMode)
	assert.Equal(t, "10", ex.leverageReqs[0].Lever)
	assert.Len(t, n.msgs, 1)
}

func TestOpen_ProtectiveFailureKeepsPrimary(t *testing.T) {
	ex := &stubExchange{algoErr: errors.New("dial tcp: timeout")}
	exec, _, _ := newServices(ex, nil)

	res, err := exec.OpenPosition(context.Background(), OrderIntent{
		InstID: "X", Side: SideBuy, Size: dec("1"),
		Protective: ProtectiveSpec{TpTriggerPx: nullDec("100")},
	})
	require.NoError(t, err)
	assert.NotNil(t, res.Order)
	require.NotNil(t, res.ProtectiveWarning)
	assert.Equal(t, "dial tcp: timeout", res.ProtectiveWarning.Reason)
}

func TestOpen_PrimaryFailureStopsBeforeProtective(t *testing.T) {
	ex := &stubExchange{orderErr: exchangeErr("51008", "Insufficient balance")}
	exec, _, _ := newServices(ex, nil)

	res, err := exec.OpenPosition(context.Background(), OrderIntent{
		InstID: "X", Side: SideBuy, Size: dec("1"),
		Protective: ProtectiveSpec{TpTriggerPx: nullDec("100")},
	})
	var xerr *okx.ExchangeError
	require.True(t, errors.As(err, &xerr))
	assert.Equal(t, "51008", xerr.Code)
	assert.Equal(t, []string{"PlaceOrder"}, ex.Calls())
	assert.Equal(t, "X", res.Request.InstID)
}

func TestOpen_ValidationIssuesNoCalls(t *testing.T) {
	cases := map[string]OrderIntent{
		"no instId":   {Side: SideBuy, Size: dec("1")},
		"bad side":    {InstID: "X", Side: "hold", Size: dec("1")},
		"zero size":   {InstID: "X", Side: SideBuy, Size: dec("0")},
		"limit no px": {InstID: "X", Side: SideBuy, Size: dec("1"), OrdType: "limit"},
		"bad tdMode":  {InstID: "X", Side: SideBuy, Size: dec("1"), TdMode: "spot"},
		"bad lever":   {InstID: "X", Side: SideBuy, Size: dec("1"), Leverage: nullDec("0")},
		"bad trigger": {InstID: "X", Side: SideBuy, Size: dec("1"), Protective: ProtectiveSpec{TpTriggerPx: nullDec("-1")}},
		"bad px type": {InstID: "X", Side: SideBuy, Size: dec("1"), Protective: ProtectiveSpec{TpTriggerPx: nullDec("1"), TriggerPxType: "best"}},
	}
	for name, in := range cases {
		ex := &stubExchange{}
		exec, _, _ := newServices(ex, nil)
		_, err := exec.OpenPosition(context.Background(), in)
		var verr *ValidationError
		assert.True(t, errors.As(err, &verr), name)
		assert.Empty(t, ex.Calls(), name)
	}
}

func TestProtective_NoTriggerNoCalls(t *testing.T) {
	ex := &stubExchange{positions: []okx.PositionRow{netRow("X", "1")}}
	_, _, rec := newServices(ex, nil)

	_, err := rec.SetProtective(context.Background(), ProtectiveIntent{InstID: "X", CancelExisting: true})
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Empty(t, ex.Calls())
}

func TestProtective_FlatIsError(t *testing.T) {
	ex := &stubExchange{}
	_, _, rec := newServices(ex, nil)

	_, err := rec.SetProtective(context.Background(), ProtectiveIntent{
		InstID: "X", CancelExisting: true, Spec: ProtectiveSpec{SlTriggerPx: nullDec("90")},
	})
	assert.True(t, errors.Is(err, ErrFlatPosition))
	assert.Equal(t, []string{"Positions"}, ex.Calls())
}

func TestProtective_CancelWithZeroPendingProceeds(t *testing.T) {
	ex := &stubExchange{positions: []okx.PositionRow{netRow("X", "-2")}}
	_, _, rec := newServices(ex, nil)

	res, err := rec.SetProtective(context.Background(), ProtectiveIntent{
		InstID: "X", CancelExisting: true,
		Spec: ProtectiveSpec{TpTriggerPx: nullDec("80"), SlTriggerPx: nullDec("120")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Positions", "PendingAlgos", "PlaceAlgo"}, ex.Calls())
	assert.Empty(t, res.Cancelled)
	assert.Equal(t, []string{"algo-1"}, res.CreatedIDs)

	algo := ex.algoReqs[0]
	assert.Equal(t, "buy", algo.Side)
	assert.Equal(t, "2", algo.Sz)
	assert.True(t, algo.ReduceOnly)
	assert.Equal(t, okx.AlgoOCO, algo.OrdType)
	assert.Equal(t, []string{okx.AlgoConditional, okx.AlgoOCO}, ex.pendingTypes[0])
}

func TestProtective_CancelsAllPendingInOneBatch(t *testing.T) {
	ex := &stubExchange{
		positions: []okx.PositionRow{netRow("X", "4")},
		pending: []okx.PendingAlgo{
			{AlgoID: "a1", InstID: "X", OrdType: okx.AlgoConditional},
			{AlgoID: "a2", InstID: "X", OrdType: okx.AlgoOCO},
			{AlgoID: "other", InstID: "Y", OrdType: okx.AlgoOCO},
		},
	}
	_, _, rec := newServices(ex, nil)

	res, err := rec.SetProtective(context.Background(), ProtectiveIntent{
		InstID: "X", CancelExisting: true, Spec: ProtectiveSpec{SlTriggerPx: nullDec("3.5")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Positions", "PendingAlgos", "CancelAlgos", "PlaceAlgo"}, ex.Calls())
	require.Len(t, ex.cancelReqs, 1)
	assert.Equal(t, []okx.CancelAlgoRequest{{AlgoID: "a1", InstID: "X"}, {AlgoID: "a2", InstID: "X"}}, ex.cancelReqs[0])
	assert.Equal(t, []string{"a1", "a2"}, res.Cancelled)
	assert.Equal(t, "sell", ex.algoReqs[0].Side)
	assert.Equal(t, "4", ex.algoReqs[0].Sz)
	assert.Equal(t, okx.AlgoConditional, ex.algoReqs[0].OrdType)
}

func TestProtective_CancelFailureCreatesNothing(t *testing.T) {
	ex := &stubExchange{
		positions: []okx.PositionRow{netRow("X", "1")},
		pending:   []okx.PendingAlgo{{AlgoID: "a1", InstID: "X", OrdType: okx.AlgoOCO}},
		cancelErr: exchangeErr("51400", "Cancellation failed"),
	}
	_, _, rec := newServices(ex, nil)

	res, err := rec.SetProtective(context.Background(), ProtectiveIntent{
		InstID: "X", CancelExisting: true, Spec: ProtectiveSpec{TpTriggerPx: nullDec("2")},
	})
	require.Error(t, err)
	assert.NotContains(t, ex.Calls(), "PlaceAlgo")
	assert.Empty(t, res.Cancelled)
}

func TestProtective_WithoutCancelJustCreates(t *testing.T) {
	ex := &stubExchange{positions: []okx.PositionRow{netRow("X", "1")}}
	_, _, rec := newServices(ex, nil)

	_, err := rec.SetProtective(context.Background(), ProtectiveIntent{
		InstID: "X", Spec: ProtectiveSpec{TpTriggerPx: nullDec("2")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Positions", "PlaceAlgo"}, ex.Calls())
}

func TestProtective_AmendFastPath(t *testing.T) {
	ex := &stubExchange{
		positions: []okx.PositionRow{netRow("X", "1.5")},
		pending:   []okx.PendingAlgo{{AlgoID: "a1", InstID: "X", OrdType: okx.AlgoOCO}},
	}
	_, _, rec := newServices(ex, nil)

	res, err := rec.SetProtective(context.Background(), ProtectiveIntent{
		InstID: "X", Amend: true,
		Spec: ProtectiveSpec{TpTriggerPx: nullDec("110"), SlTriggerPx: nullDec("95")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Positions", "PendingAlgos", "AmendAlgo"}, ex.Calls())
	assert.True(t, res.Amended)
	assert.Equal(t, []string{"a1"}, res.CreatedIDs)
	amend := ex.amendReqs[0]
	assert.Equal(t, "a1", amend.AlgoID)
	assert.Equal(t, "1.5", amend.NewSz)
	assert.Equal(t, "110", amend.NewTpTriggerPx)
	assert.Equal(t, "95", amend.NewSlTriggerPx)
}

func TestProtective_AmendFailureFallsBack(t *testing.T) {
	ex := &stubExchange{
		positions: []okx.PositionRow{netRow("X", "1")},
		pending:   []okx.PendingAlgo{{AlgoID: "a1", InstID: "X", OrdType: okx.AlgoConditional}},
		amendErr:  exchangeErr("51000", "Parameter error"),
	}
	_, _, rec := newServices(ex, nil)

	res, err := rec.SetProtective(context.Background(), ProtectiveIntent{
		InstID: "X", Amend: true, Spec: ProtectiveSpec{SlTriggerPx: nullDec("0.5")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Positions", "PendingAlgos", "AmendAlgo", "CancelAlgos", "PlaceAlgo"}, ex.Calls())
	assert.False(t, res.Amended)
	assert.NotNil(t, res.AmendWarning)
	assert.Equal(t, []string{"a1"}, res.Cancelled)
}

func TestProtective_AmendTypeMismatchRecreates(t *testing.T) {
	ex := &stubExchange{
		positions: []okx.PositionRow{netRow("X", "1")},
		pending:   []okx.PendingAlgo{{AlgoID: "a1", InstID: "X", OrdType: okx.AlgoConditional}},
	}
	_, _, rec := newServices(ex, nil)

	_, err := rec.SetProtective(context.Background(), ProtectiveIntent{
		InstID: "X", Amend: true,
		Spec: ProtectiveSpec{TpTriggerPx: nullDec("2"), SlTriggerPx: nullDec("0.5")},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Positions", "PendingAlgos", "CancelAlgos", "PlaceAlgo"}, ex.Calls())
}

func TestProtective_HedgeModePosSide(t *testing.T) {
	ex := &stubExchange{positions: []okx.PositionRow{hedgeRow("X", "long", "2"), hedgeRow("X", "short", "0")}}
	_, _, rec := newServices(ex, nil)

	_, err := rec.SetProtective(context.Background(), ProtectiveIntent{
		InstID: "X", Spec: ProtectiveSpec{SlTriggerPx: nullDec("1")},
	})
	require.NoError(t, err)
	assert.Equal(t, "long", ex.algoReqs[0].PosSide)
	assert.Equal(t, "sell", ex.algoReqs[0].Side)
}

func TestProtective_CreateFailureAfterCancelNotifies(t *testing.T) {
	ex := &stubExchange{
		positions: []okx.PositionRow{netRow("X", "1")},
		pending:   []okx.PendingAlgo{{AlgoID: "a1", InstID: "X", OrdType: okx.AlgoOCO}},
		algoErr:   exchangeErr("51277", "bad trigger"),
	}
	n := &recordingNotifier{}
	_, _, rec := newServices(ex, n)

	res, err := rec.SetProtective(context.Background(), ProtectiveIntent{
		InstID: "X", CancelExisting: true, Spec: ProtectiveSpec{TpTriggerPx: nullDec("2")},
	})
	require.Error(t, err)
	assert.Equal(t, []string{"a1"}, res.Cancelled)
	assert.Empty(t, res.CreatedIDs)
	assert.Len(t, n.msgs, 1)
}

func TestParseSide(t *testing.T) {
	s, err := ParseSide(" BUY ")
	require.NoError(t, err)
	assert.Equal(t, SideBuy, s)
	assert.Equal(t, SideSell, s.Opposite())

	_, err = ParseSide("long")
	var verr *ValidationError
	assert.True(t, errors.As(err, &verr))
}

func TestOracle_BalanceDefaultsCcy(t *testing.T) {
	ex := &stubExchange{}
	o := NewOracle(ex, testBuilder())
	_, err := o.Balance(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"Balance:USDT"}, ex.Calls())
}
