package service

import (
	"context"
	"net/http"
	"net/url"
)

const positionsPath = "/api/v5/account/positions"

// Positions - все строки позиций по инструменту. В hedge-режиме их две (long/short),
// в net-режиме одна.
func (c *Client) Positions(ctx context.Context, instType, instID string) (*Reply[PositionRow], error) {
	q := url.Values{}
	if instType != "" {
		q.Set("instType", instType)
	}
	if instID != "" {
		q.Set("instId", instID)
	}
	return call[PositionRow](ctx, c, "Positions", http.MethodGet, WithQuery(positionsPath, q), nil)
}
