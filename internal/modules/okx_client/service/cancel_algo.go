package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const cancelAlgosPath = "/api/v5/trade/cancel-algos"

// cancelAlgosBatch - больше 10 id за запрос OKX отклоняет целиком.
const cancelAlgosBatch = 10

// PendingAlgos - висящие алго-ордера по инструменту. conditional и oco
// OKX разрешает запрашивать одним вызовом через запятую.
func (c *Client) PendingAlgos(ctx context.Context, instType, instID string, ordTypes ...string) (*Reply[PendingAlgo], error) {
	if len(ordTypes) == 0 {
		ordTypes = []string{AlgoConditional, AlgoOCO}
	}
	q := url.Values{}
	q.Set("ordType", strings.Join(ordTypes, ","))
	if instType != "" {
		q.Set("instType", instType)
	}
	if instID != "" {
		q.Set("instId", instID)
	}
	return call[PendingAlgo](ctx, c, "PendingAlgos", http.MethodGet, WithQuery(algoPendingPath, q), nil)
}

// CancelAlgos отменяет пачками по 10: тело - массив {algoId, instId}.
// Ответы склеиваются в один. Ошибка на пачке прерывает остальные, в
// ответе остаётся то, что успели отменить.
func (c *Client) CancelAlgos(ctx context.Context, reqs []CancelAlgoRequest) (*Reply[AlgoAck], error) {
	if len(reqs) <= cancelAlgosBatch {
		return call[AlgoAck](ctx, c, "CancelAlgos", http.MethodPost, cancelAlgosPath, reqs)
	}

	out := &Reply[AlgoAck]{Code: "0", Data: make([]AlgoAck, 0, len(reqs))}
	for start := 0; start < len(reqs); start += cancelAlgosBatch {
		end := min(start+cancelAlgosBatch, len(reqs))
		r, err := call[AlgoAck](ctx, c, "CancelAlgos", http.MethodPost, cancelAlgosPath, reqs[start:end])
		if err != nil {
			return out, errors.Wrapf(err, "cancel algos %d-%d of %d", start+1, end, len(reqs))
		}
		out.Msg = r.Msg
		out.Raw = r.Raw
		out.Data = append(out.Data, r.Data...)
	}
	return out, nil
}
