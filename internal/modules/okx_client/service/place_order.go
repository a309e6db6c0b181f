package service

import (
	"context"
	"net/http"
)

const orderPath = "/api/v5/trade/order"

// PlaceOrder - обычный и reduce-only ордер идут в один эндпоинт,
// отличаются флагом reduceOnly в теле.
func (c *Client) PlaceOrder(ctx context.Context, req OrderRequest) (*Reply[OrderAck], error) {
	return call[OrderAck](ctx, c, "PlaceOrder", http.MethodPost, orderPath, req)
}
