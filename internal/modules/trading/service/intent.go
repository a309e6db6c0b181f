package service

import (
	"fmt"
	"strings"

	"okx_exec_proxy/internal/modules/config"
	okx "okx_exec_proxy/internal/modules/okx_client/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	}
	return "", &ValidationError{Field: "side", Reason: fmt.Sprintf("must be buy or sell, got %q", s)}
}

func (s Side) Opposite() Side {
	if s == SideBuy {
		return SideSell
	}
	return SideBuy
}

// ValidationError - интент отклонён локально, на биржу ничего не ушло.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation: " + e.Reason
	}
	return fmt.Sprintf("validation: %s %s", e.Field, e.Reason)
}

// ErrFlatPosition - защитный ордер не к чему привязать.
var ErrFlatPosition = errors.New("no open position")

const marketOrdPx = "-1"

var (
	ordTypes       = map[string]bool{"market": true, "limit": true, "post_only": true, "fok": true, "ioc": true}
	tdModes        = map[string]bool{"cross": true, "isolated": true, "cash": true}
	triggerPxTypes = map[string]bool{"last": true, "mark": true, "index": true}
)

// ProtectiveSpec - цены TP/SL. OrdPx не задан => -1, то есть рыночное исполнение по триггеру.
type ProtectiveSpec struct {
	TpTriggerPx   decimal.NullDecimal
	TpOrdPx       decimal.NullDecimal
	SlTriggerPx   decimal.NullDecimal
	SlOrdPx       decimal.NullDecimal
	TriggerPxType string
}

func (p ProtectiveSpec) Empty() bool {
	return !p.TpTriggerPx.Valid && !p.SlTriggerPx.Valid
}

// OrdType: обе ноги => oco, одна => conditional.
func (p ProtectiveSpec) OrdType() string {
	if p.TpTriggerPx.Valid && p.SlTriggerPx.Valid {
		return okx.AlgoOCO
	}
	return okx.AlgoConditional
}

type OrderIntent struct {
	InstID     string
	Side       Side
	Size       decimal.Decimal
	OrdType    string
	TdMode     string
	Px         decimal.NullDecimal
	PosSide    string
	Leverage   decimal.NullDecimal
	Protective ProtectiveSpec
}

// IntentBuilder - единственное место, где интент превращается в тело запроса.
// Open, close и protective собирают ордера только через него.
type IntentBuilder struct {
	defaults config.TradingConfig
}

func NewIntentBuilder(cfg *config.Config) *IntentBuilder {
	d := cfg.Trading
	if d.InstType == "" {
		d.InstType = "SWAP"
	}
	if d.TdMode == "" {
		d.TdMode = "cross"
	}
	if d.OrdType == "" {
		d.OrdType = "market"
	}
	if d.TriggerPxType == "" {
		d.TriggerPxType = "last"
	}
	if d.BalanceCcy == "" {
		d.BalanceCcy = "USDT"
	}
	return &IntentBuilder{defaults: d}
}

func (b *IntentBuilder) BalanceCcy() string { return b.defaults.BalanceCcy }

func (b *IntentBuilder) InstType(v string) string {
	if v == "" {
		return b.defaults.InstType
	}
	return v
}

func (b *IntentBuilder) TdMode(v string) string {
	if v == "" {
		return b.defaults.TdMode
	}
	return v
}

// Order собирает основной ордер. reduceOnly выставляет только закрытие.
func (b *IntentBuilder) Order(in OrderIntent, reduceOnly bool) (okx.OrderRequest, error) {
	if strings.TrimSpace(in.InstID) == "" {
		return okx.OrderRequest{}, &ValidationError{Field: "instId", Reason: "is required"}
	}
	if in.Side != SideBuy && in.Side != SideSell {
		return okx.OrderRequest{}, &ValidationError{Field: "side", Reason: "must be buy or sell"}
	}
	if !in.Size.IsPositive() {
		return okx.OrderRequest{}, &ValidationError{Field: "sz", Reason: "must be > 0"}
	}

	ordType := in.OrdType
	if ordType == "" {
		ordType = b.defaults.OrdType
	}
	if !ordTypes[ordType] {
		return okx.OrderRequest{}, &ValidationError{Field: "ordType", Reason: fmt.Sprintf("unsupported %q", ordType)}
	}
	tdMode := b.TdMode(in.TdMode)
	if !tdModes[tdMode] {
		return okx.OrderRequest{}, &ValidationError{Field: "tdMode", Reason: fmt.Sprintf("unsupported %q", tdMode)}
	}

	req := okx.OrderRequest{
		InstID:     in.InstID,
		TdMode:     tdMode,
		Side:       string(in.Side),
		PosSide:    in.PosSide,
		OrdType:    ordType,
		Sz:         in.Size.String(),
		ReduceOnly: reduceOnly,
		ClOrdID:    newClientID(),
	}
	if ordType != "market" {
		if !in.Px.Valid || !in.Px.Decimal.IsPositive() {
			return okx.OrderRequest{}, &ValidationError{Field: "px", Reason: "is required for " + ordType}
		}
		req.Px = in.Px.Decimal.String()
	}
	return req, nil
}

// Leverage - тело set-leverage. mgnMode совпадает с tdMode ордера.
func (b *IntentBuilder) Leverage(in OrderIntent) (okx.LeverageRequest, error) {
	if !in.Leverage.Decimal.IsPositive() {
		return okx.LeverageRequest{}, &ValidationError{Field: "lever", Reason: "must be > 0"}
	}
	return okx.LeverageRequest{
		InstID:  in.InstID,
		Lever:   in.Leverage.Decimal.String(),
		MgnMode: b.TdMode(in.TdMode),
		PosSide: in.PosSide,
	}, nil
}

func (b *IntentBuilder) ValidateProtective(p ProtectiveSpec) error {
	if p.Empty() {
		return &ValidationError{Field: "tpTriggerPx/slTriggerPx", Reason: "at least one trigger price is required"}
	}
	if p.TpTriggerPx.Valid && !p.TpTriggerPx.Decimal.IsPositive() {
		return &ValidationError{Field: "tpTriggerPx", Reason: "must be > 0"}
	}
	if p.SlTriggerPx.Valid && !p.SlTriggerPx.Decimal.IsPositive() {
		return &ValidationError{Field: "slTriggerPx", Reason: "must be > 0"}
	}
	if p.TriggerPxType != "" && !triggerPxTypes[p.TriggerPxType] {
		return &ValidationError{Field: "triggerPxType", Reason: "must be last, mark or index"}
	}
	return nil
}

// Protective строит TP/SL против экспозиции exposure: сторона обратная,
// размер равен размеру экспозиции, reduceOnly всегда true.
func (b *IntentBuilder) Protective(instID, tdMode, posSide string, exposure Side, size decimal.Decimal, p ProtectiveSpec) (okx.AlgoOrderRequest, error) {
	if strings.TrimSpace(instID) == "" {
		return okx.AlgoOrderRequest{}, &ValidationError{Field: "instId", Reason: "is required"}
	}
	if err := b.ValidateProtective(p); err != nil {
		return okx.AlgoOrderRequest{}, err
	}
	size = size.Abs()
	if size.IsZero() {
		return okx.AlgoOrderRequest{}, ErrFlatPosition
	}

	pxType := p.TriggerPxType
	if pxType == "" {
		pxType = b.defaults.TriggerPxType
	}

	req := okx.AlgoOrderRequest{
		InstID:      instID,
		TdMode:      b.TdMode(tdMode),
		Side:        string(exposure.Opposite()),
		PosSide:     posSide,
		OrdType:     p.OrdType(),
		Sz:          size.String(),
		ReduceOnly:  true,
		AlgoClOrdID: newClientID(),
	}
	if p.TpTriggerPx.Valid {
		req.TpTriggerPx = p.TpTriggerPx.Decimal.String()
		req.TpOrdPx = ordPx(p.TpOrdPx)
		req.TpTriggerPxType = pxType
	}
	if p.SlTriggerPx.Valid {
		req.SlTriggerPx = p.SlTriggerPx.Decimal.String()
		req.SlOrdPx = ordPx(p.SlOrdPx)
		req.SlTriggerPxType = pxType
	}
	return req, nil
}

// Amend переносит уже собранный protective в правку висящего algoId.
func (b *IntentBuilder) Amend(algoID string, req okx.AlgoOrderRequest) okx.AmendAlgoRequest {
	return okx.AmendAlgoRequest{
		InstID:             req.InstID,
		AlgoID:             algoID,
		NewSz:              req.Sz,
		NewTpTriggerPx:     req.TpTriggerPx,
		NewTpOrdPx:         req.TpOrdPx,
		NewTpTriggerPxType: req.TpTriggerPxType,
		NewSlTriggerPx:     req.SlTriggerPx,
		NewSlOrdPx:         req.SlOrdPx,
		NewSlTriggerPxType: req.SlTriggerPxType,
	}
}

func ordPx(v decimal.NullDecimal) string {
	if !v.Valid {
		return marketOrdPx
	}
	return v.Decimal.String()
}

// newClientID - clOrdId у OKX до 32 символов, только буквы и цифры.
func newClientID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
