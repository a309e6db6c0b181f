package handler

import (
	"strings"

	"okx_exec_proxy/internal/modules/trading/service"

	"github.com/shopspring/decimal"
)

// Num - число в теле запроса: принимает 1.5, "1.5", "" и null.
type Num struct {
	decimal.NullDecimal
}

func (n *Num) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(data)), `"`))
	if s == "" || s == "null" {
		n.NullDecimal = decimal.NullDecimal{}
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return err
	}
	n.NullDecimal = decimal.NewNullDecimal(d)
	return nil
}

type positionsRequest struct {
	InstID   string `json:"instId" binding:"required"`
	InstType string `json:"instType"`
}

type orderRequest struct {
	InstID        string `json:"instId" binding:"required"`
	Side          string `json:"side" binding:"required"`
	OrdType       string `json:"ordType"`
	TdMode        string `json:"tdMode"`
	Sz            Num    `json:"sz"`
	Px            Num    `json:"px"`
	Lever         Num    `json:"lever"`
	PosSide       string `json:"posSide"`
	TpTriggerPx   Num    `json:"tpTriggerPx"`
	TpOrdPx       Num    `json:"tpOrdPx"`
	SlTriggerPx   Num    `json:"slTriggerPx"`
	SlOrdPx       Num    `json:"slOrdPx"`
	TriggerPxType string `json:"triggerPxType"`
}

func (r orderRequest) intent() (service.OrderIntent, error) {
	side, err := service.ParseSide(r.Side)
	if err != nil {
		return service.OrderIntent{}, err
	}
	if !r.Sz.Valid {
		return service.OrderIntent{}, &service.ValidationError{Field: "sz", Reason: "is required"}
	}
	return service.OrderIntent{
		InstID:   strings.TrimSpace(r.InstID),
		Side:     side,
		Size:     r.Sz.Decimal,
		OrdType:  r.OrdType,
		TdMode:   r.TdMode,
		Px:       r.Px.NullDecimal,
		PosSide:  r.PosSide,
		Leverage: r.Lever.NullDecimal,
		Protective: service.ProtectiveSpec{
			TpTriggerPx:   r.TpTriggerPx.NullDecimal,
			TpOrdPx:       r.TpOrdPx.NullDecimal,
			SlTriggerPx:   r.SlTriggerPx.NullDecimal,
			SlOrdPx:       r.SlOrdPx.NullDecimal,
			TriggerPxType: r.TriggerPxType,
		},
	}, nil
}

type closeRequest struct {
	InstID   string `json:"instId" binding:"required"`
	InstType string `json:"instType"`
	TdMode   string `json:"tdMode"`
	All      bool   `json:"all"`
	Sz       Num    `json:"sz"`
	PosSide  string `json:"posSide"`
}

func (r closeRequest) intent() service.CloseIntent {
	return service.CloseIntent{
		InstID:   strings.TrimSpace(r.InstID),
		InstType: r.InstType,
		TdMode:   r.TdMode,
		All:      r.All,
		Size:     r.Sz.NullDecimal,
		PosSide:  r.PosSide,
	}
}

type protectiveRequest struct {
	InstID         string `json:"instId" binding:"required"`
	InstType       string `json:"instType"`
	TdMode         string `json:"tdMode"`
	CancelExisting bool   `json:"cancelExisting"`
	Amend          bool   `json:"amend"`
	TpTriggerPx    Num    `json:"tpTriggerPx"`
	TpOrdPx        Num    `json:"tpOrdPx"`
	SlTriggerPx    Num    `json:"slTriggerPx"`
	SlOrdPx        Num    `json:"slOrdPx"`
	TriggerPxType  string `json:"triggerPxType"`
}

func (r protectiveRequest) intent() service.ProtectiveIntent {
	return service.ProtectiveIntent{
		InstID:         strings.TrimSpace(r.InstID),
		InstType:       r.InstType,
		TdMode:         r.TdMode,
		CancelExisting: r.CancelExisting,
		Amend:          r.Amend,
		Spec: service.ProtectiveSpec{
			TpTriggerPx:   r.TpTriggerPx.NullDecimal,
			TpOrdPx:       r.TpOrdPx.NullDecimal,
			SlTriggerPx:   r.SlTriggerPx.NullDecimal,
			SlOrdPx:       r.SlOrdPx.NullDecimal,
			TriggerPxType: r.TriggerPxType,
		},
	}
}
