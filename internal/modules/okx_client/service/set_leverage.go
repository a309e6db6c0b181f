package service

import (
	"context"
	"net/http"
)

const setLeveragePath = "/api/v5/account/set-leverage"

func (c *Client) SetLeverage(ctx context.Context, req LeverageRequest) (*Reply[LeverageAck], error) {
	return call[LeverageAck](ctx, c, "SetLeverage", http.MethodPost, setLeveragePath, req)
}
