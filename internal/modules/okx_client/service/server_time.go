package service

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

const serverTimePath = "/api/v5/public/time"

// ServerTime - публичный эндпоинт, без подписи.
func (c *Client) ServerTime(ctx context.Context) (time.Time, error) {
	r, err := callPublic[serverTime](ctx, c, "ServerTime", http.MethodGet, serverTimePath)
	if err != nil {
		return time.Time{}, err
	}
	st, ok := r.First()
	if !ok {
		return time.Time{}, fmt.Errorf("ServerTime: empty data RAW=%s", string(r.Raw))
	}
	ms, err := strconv.ParseInt(st.Ts, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("ServerTime: parse ts %q: %w", st.Ts, err)
	}
	return time.UnixMilli(ms), nil
}
