package service

import (
	"context"
	"net/http"
	"net/url"
)

const balancePath = "/api/v5/account/balance"

func (c *Client) Balance(ctx context.Context, ccy string) (*Reply[Balance], error) {
	q := url.Values{}
	if ccy != "" {
		q.Set("ccy", ccy)
	}
	return call[Balance](ctx, c, "Balance", http.MethodGet, WithQuery(balancePath, q), nil)
}
