package service

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Decimal - decimal.Decimal, который переживает "" и null в ответах OKX.
type Decimal struct {
	decimal.Decimal
}

func (d *Decimal) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(string(data), `"`))
	if s == "" || s == "null" {
		d.Decimal = decimal.Zero
		return nil
	}
	return d.Decimal.UnmarshalJSON(data)
}

// Reply - распакованный ответ {code, msg, data}. В json отдаётся сырым телом биржи.
type Reply[T any] struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
	Data []T    `json:"data"`

	Raw []byte `json:"-"`
}

func (r *Reply[T]) First() (T, bool) {
	var zero T
	if r == nil || len(r.Data) == 0 {
		return zero, false
	}
	return r.Data[0], true
}

func (r *Reply[T]) MarshalJSON() ([]byte, error) {
	if r == nil || len(r.Raw) == 0 {
		return []byte("null"), nil
	}
	return r.Raw, nil
}

type PositionRow struct {
	InstID   string  `json:"instId"`
	InstType string  `json:"instType"`
	MgnMode  string  `json:"mgnMode"`
	PosSide  string  `json:"posSide"`
	Pos      Decimal `json:"pos"`
	AvailPos Decimal `json:"availPos"`
	AvgPx    Decimal `json:"avgPx"`
	MarkPx   Decimal `json:"markPx"`
	LiqPx    Decimal `json:"liqPx"`
	Lever    Decimal `json:"lever"`
	Upl      Decimal `json:"upl"`
	UplRatio Decimal `json:"uplRatio"`
	Ccy      string  `json:"ccy"`
	PosID    string  `json:"posId"`
	UTime    string  `json:"uTime"`
}

type Balance struct {
	TotalEq Decimal         `json:"totalEq"`
	UTime   string          `json:"uTime"`
	Details []BalanceDetail `json:"details"`
}

type BalanceDetail struct {
	Ccy       string  `json:"ccy"`
	Eq        Decimal `json:"eq"`
	CashBal   Decimal `json:"cashBal"`
	AvailBal  Decimal `json:"availBal"`
	AvailEq   Decimal `json:"availEq"`
	FrozenBal Decimal `json:"frozenBal"`
	Upl       Decimal `json:"upl"`
}

type LeverageRequest struct {
	InstID  string `json:"instId"`
	Lever   string `json:"lever"`
	MgnMode string `json:"mgnMode"`
	PosSide string `json:"posSide,omitempty"`
}

type LeverageAck struct {
	InstID  string `json:"instId"`
	Lever   string `json:"lever"`
	MgnMode string `json:"mgnMode"`
	PosSide string `json:"posSide"`
}

type OrderRequest struct {
	InstID     string `json:"instId"`
	TdMode     string `json:"tdMode"`
	Side       string `json:"side"`
	PosSide    string `json:"posSide,omitempty"`
	OrdType    string `json:"ordType"`
	Sz         string `json:"sz"`
	Px         string `json:"px,omitempty"`
	ReduceOnly bool   `json:"reduceOnly,omitempty"`
	ClOrdID    string `json:"clOrdId,omitempty"`
}

type OrderAck struct {
	OrdID   string `json:"ordId"`
	ClOrdID string `json:"clOrdId"`
	Tag     string `json:"tag"`
	SCode   string `json:"sCode"`
	SMsg    string `json:"sMsg"`
}

// AlgoOrderRequest - тело /trade/order-algo для conditional и oco.
type AlgoOrderRequest struct {
	InstID          string `json:"instId"`
	TdMode          string `json:"tdMode"`
	Side            string `json:"side"`
	PosSide         string `json:"posSide,omitempty"`
	OrdType         string `json:"ordType"`
	Sz              string `json:"sz"`
	ReduceOnly      bool   `json:"reduceOnly"`
	TpTriggerPx     string `json:"tpTriggerPx,omitempty"`
	TpOrdPx         string `json:"tpOrdPx,omitempty"`
	TpTriggerPxType string `json:"tpTriggerPxType,omitempty"`
	SlTriggerPx     string `json:"slTriggerPx,omitempty"`
	SlOrdPx         string `json:"slOrdPx,omitempty"`
	SlTriggerPxType string `json:"slTriggerPxType,omitempty"`
	AlgoClOrdID     string `json:"algoClOrdId,omitempty"`
}

type AlgoAck struct {
	AlgoID      string `json:"algoId"`
	AlgoClOrdID string `json:"algoClOrdId"`
	SCode       string `json:"sCode"`
	SMsg        string `json:"sMsg"`
}

type PendingAlgo struct {
	AlgoID          string  `json:"algoId"`
	AlgoClOrdID     string  `json:"algoClOrdId"`
	InstID          string  `json:"instId"`
	InstType        string  `json:"instType"`
	OrdType         string  `json:"ordType"`
	Side            string  `json:"side"`
	PosSide         string  `json:"posSide"`
	TdMode          string  `json:"tdMode"`
	State           string  `json:"state"`
	Sz              Decimal `json:"sz"`
	ReduceOnly      string  `json:"reduceOnly"`
	TpTriggerPx     Decimal `json:"tpTriggerPx"`
	TpOrdPx         Decimal `json:"tpOrdPx"`
	TpTriggerPxType string  `json:"tpTriggerPxType"`
	SlTriggerPx     Decimal `json:"slTriggerPx"`
	SlOrdPx         Decimal `json:"slOrdPx"`
	SlTriggerPxType string  `json:"slTriggerPxType"`
	CTime           string  `json:"cTime"`
}

type CancelAlgoRequest struct {
	AlgoID string `json:"algoId"`
	InstID string `json:"instId"`
}

// AmendAlgoRequest - правка висящего conditional/oco по algoId без пересоздания.
type AmendAlgoRequest struct {
	InstID             string `json:"instId"`
	AlgoID             string `json:"algoId"`
	NewSz              string `json:"newSz,omitempty"`
	NewTpTriggerPx     string `json:"newTpTriggerPx,omitempty"`
	NewTpOrdPx         string `json:"newTpOrdPx,omitempty"`
	NewTpTriggerPxType string `json:"newTpTriggerPxType,omitempty"`
	NewSlTriggerPx     string `json:"newSlTriggerPx,omitempty"`
	NewSlOrdPx         string `json:"newSlOrdPx,omitempty"`
	NewSlTriggerPxType string `json:"newSlTriggerPxType,omitempty"`
}

type AmendAck struct {
	AlgoID      string `json:"algoId"`
	AlgoClOrdID string `json:"algoClOrdId"`
	ReqID       string `json:"reqId"`
	SCode       string `json:"sCode"`
	SMsg        string `json:"sMsg"`
}

type serverTime struct {
	Ts string `json:"ts"`
}
