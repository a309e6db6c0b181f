package service

import (
	"context"
	"strings"

	okx "okx_exec_proxy/internal/modules/okx_client/service"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	posSideLong  = "long"
	posSideShort = "short"
)

// Position - нетто по инструменту на момент запроса. Не кешируется.
type Position struct {
	InstID     string
	Size       decimal.Decimal
	MarginMode string
	// PosSide заполнен только в hedge-режиме: long при Size > 0, short при Size < 0.
	PosSide string
	Hedge   bool
	Rows    []okx.PositionRow
	Raw     *okx.Reply[okx.PositionRow]
}

func (p Position) Flat() bool { return p.Size.IsZero() }

// Side - сторона экспозиции. Для плоской позиции смысла не имеет.
func (p Position) Side() Side {
	if p.Size.IsNegative() {
		return SideSell
	}
	return SideBuy
}

func (p Position) Abs() decimal.Decimal { return p.Size.Abs() }

// Leg - размер одной ноги в hedge-режиме (long или short), всегда >= 0.
func (p Position) Leg(posSide string) decimal.Decimal {
	leg := decimal.Zero
	for _, row := range p.Rows {
		if strings.EqualFold(row.PosSide, posSide) {
			leg = leg.Add(row.Pos.Decimal.Abs())
		}
	}
	return leg
}

// Sample - первая ненулевая строка, для отладки в ответе /positions.
func (p Position) Sample() *okx.PositionRow {
	for i := range p.Rows {
		if !p.Rows[i].Pos.IsZero() {
			return &p.Rows[i]
		}
	}
	return nil
}

type Oracle struct {
	ex      Exchange
	builder *IntentBuilder
}

func NewOracle(ex Exchange, builder *IntentBuilder) *Oracle {
	return &Oracle{ex: ex, builder: builder}
}

func (o *Oracle) NetPosition(ctx context.Context, instType, instID string) (Position, error) {
	if strings.TrimSpace(instID) == "" {
		return Position{}, &ValidationError{Field: "instId", Reason: "is required"}
	}
	r, err := o.ex.Positions(ctx, o.builder.InstType(instType), instID)
	if err != nil {
		return Position{}, errors.Wrapf(err, "net position %s", instID)
	}
	return NetOf(instID, r), nil
}

// NetOf складывает pos по всем строкам инструмента. В hedge-режиме OKX отдаёт
// pos без знака и сторону в posSide, в net-режиме знак уже в pos.
func NetOf(instID string, r *okx.Reply[okx.PositionRow]) Position {
	p := Position{InstID: instID, Raw: r}
	if r == nil {
		return p
	}
	for _, row := range r.Data {
		if row.InstID != "" && row.InstID != instID {
			continue
		}
		p.Rows = append(p.Rows, row)

		pos := row.Pos.Decimal
		switch strings.ToLower(row.PosSide) {
		case posSideLong:
			p.Hedge = true
			pos = pos.Abs()
		case posSideShort:
			p.Hedge = true
			pos = pos.Abs().Neg()
		}
		p.Size = p.Size.Add(pos)

		if p.MarginMode == "" && !pos.IsZero() {
			p.MarginMode = row.MgnMode
		}
	}
	if p.Hedge {
		switch {
		case p.Size.IsPositive():
			p.PosSide = posSideLong
		case p.Size.IsNegative():
			p.PosSide = posSideShort
		}
	}
	return p
}

func (o *Oracle) Balance(ctx context.Context, ccy string) (*okx.Reply[okx.Balance], error) {
	if ccy == "" {
		ccy = o.builder.BalanceCcy()
	}
	return o.ex.Balance(ctx, ccy)
}
