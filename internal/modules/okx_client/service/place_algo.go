package service

import (
	"context"
	"fmt"
	"net/http"
)

const (
	algoOrderPath   = "/api/v5/trade/order-algo"
	algoPendingPath = "/api/v5/trade/orders-algo-pending"
	amendAlgoPath   = "/api/v5/trade/amend-algos"

	AlgoConditional = "conditional"
	AlgoOCO         = "oco"
)

// PlaceAlgo ставит TP/SL (conditional или oco) одним объектом в теле.
func (c *Client) PlaceAlgo(ctx context.Context, req AlgoOrderRequest) (*Reply[AlgoAck], error) {
	r, err := call[AlgoAck](ctx, c, "PlaceAlgo", http.MethodPost, algoOrderPath, req)
	if err != nil {
		return nil, err
	}
	if ack, ok := r.First(); !ok || ack.AlgoID == "" {
		return nil, &ExchangeError{
			Op:         "PlaceAlgo",
			HTTPStatus: http.StatusOK,
			Code:       r.Code,
			Msg:        fmt.Sprintf("empty algoId RAW=%s", string(r.Raw)),
			Raw:        r.Raw,
		}
	}
	return r, nil
}

// AmendAlgo правит висящий conditional/oco по algoId.
func (c *Client) AmendAlgo(ctx context.Context, req AmendAlgoRequest) (*Reply[AmendAck], error) {
	return call[AmendAck](ctx, c, "AmendAlgo", http.MethodPost, amendAlgoPath, req)
}
