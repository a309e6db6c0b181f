package service

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"okx_exec_proxy/internal/modules/config"
	"okx_exec_proxy/pkg/tracing"

	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"github.com/opentracing/opentracing-go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	headerKey        = "OK-ACCESS-KEY"
	headerSign       = "OK-ACCESS-SIGN"
	headerTimestamp  = "OK-ACCESS-TIMESTAMP"
	headerPassphrase = "OK-ACCESS-PASSPHRASE"
	headerSimulated  = "x-simulated-trading"
)

// CallRecord - что ушло на биржу и чем закончилось. Отдаётся наблюдателям
// (журнал, health) после каждого вызова.
type CallRecord struct {
	Op         string
	Method     string
	Path       string
	Body       []byte
	Timestamp  string
	HTTPStatus int
	Code       string
	Latency    time.Duration
	At         time.Time
	Err        error
}

type CallObserver interface {
	ObserveCall(ctx context.Context, rec CallRecord)
}

// Client - один подписанный REST-вызов к OKX. Ретраев нет: ошибка сразу
// уходит вызывающему.
type Client struct {
	http      *resty.Client
	apiKey    string
	passph    string
	paper     bool
	signer    *Signer
	clock     Clock
	log       *zap.Logger
	observers []CallObserver
}

func NewClient(cfg *config.Config, signer *Signer, clock Clock, log *zap.Logger, observers ...CallObserver) (*Client, error) {
	if cfg.OKX.APIKey == "" {
		return nil, &ConfigError{Field: "okx.api_key"}
	}
	if cfg.OKX.Passphrase == "" {
		return nil, &ConfigError{Field: "okx.passphrase"}
	}
	if signer == nil {
		return nil, &ConfigError{Field: "okx.secret_key"}
	}
	if clock == nil {
		clock = LocalClock{}
	}
	if log == nil {
		log = zap.NewNop()
	}

	timeout := cfg.OKX.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	httpClient := resty.New().
		SetBaseURL(cfg.OKX.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "application/json")

	return &Client{
		http:      httpClient,
		apiKey:    cfg.OKX.APIKey,
		passph:    cfg.OKX.Passphrase,
		paper:     cfg.OKX.Paper,
		signer:    signer,
		clock:     clock,
		log:       log.Named("okx"),
		observers: observers,
	}, nil
}

// WithQuery собирает path+query один раз: эта же строка и подписывается, и уходит.
func WithQuery(requestPath string, q url.Values) string {
	if len(q) == 0 {
		return requestPath
	}
	return requestPath + "?" + q.Encode()
}

func call[T any](ctx context.Context, c *Client, op, method, requestPath string, payload any) (*Reply[T], error) {
	return do[T](ctx, c, op, method, requestPath, payload, true)
}

func callPublic[T any](ctx context.Context, c *Client, op, method, requestPath string) (*Reply[T], error) {
	return do[T](ctx, c, op, method, requestPath, nil, false)
}

func do[T any](ctx context.Context, c *Client, op, method, requestPath string, payload any, signed bool) (*Reply[T], error) {
	method = strings.ToUpper(method)

	var body []byte
	if payload != nil && method != http.MethodGet {
		b, err := sonic.Marshal(payload)
		if err != nil {
			return nil, errors.Wrapf(err, "%s marshal", op)
		}
		body = b
	}

	span, ctx := tracing.StartClientSpan(ctx, method, pathOnly(requestPath))

	req := c.http.R().SetContext(ctx)
	rec := CallRecord{
		Op:     op,
		Method: method,
		Path:   requestPath,
		Body:   body,
		At:     time.Now(),
	}

	if signed {
		// свежий timestamp на каждый вызов, подпись ровно по тем байтам, что уйдут
		sr := c.signer.SignRequest(c.clock.Now(), method, requestPath, body)
		rec.Timestamp = sr.Timestamp
		req.SetHeader(headerKey, c.apiKey).
			SetHeader(headerSign, sr.Signature).
			SetHeader(headerTimestamp, sr.Timestamp).
			SetHeader(headerPassphrase, c.passph)
	}
	if c.paper {
		req.SetHeader(headerSimulated, "1")
	}
	if body != nil {
		req.SetHeader("Content-Type", "application/json").SetBody(body)
	}

	resp, err := req.Execute(method, requestPath)
	rec.Latency = time.Since(rec.At)
	if err != nil {
		terr := &TransportError{Op: op, Err: err}
		rec.Err = terr
		c.finish(ctx, span, rec)
		return nil, terr
	}
	rec.HTTPStatus = resp.StatusCode()

	reply, err := decodeReply[T](op, resp.StatusCode(), resp.Body())
	if reply != nil {
		rec.Code = reply.Code
	}
	var xerr *ExchangeError
	if errors.As(err, &xerr) {
		rec.Code = xerr.Code
	}
	rec.Err = err
	c.finish(ctx, span, rec)

	return reply, err
}

func (c *Client) finish(ctx context.Context, span opentracing.Span, rec CallRecord) {
	tracing.FinishClientSpan(span, rec.HTTPStatus, rec.Code, rec.Err)

	fields := []zap.Field{
		zap.String("op", rec.Op),
		zap.String("method", rec.Method),
		zap.String("path", rec.Path),
		zap.Int("http", rec.HTTPStatus),
		zap.String("code", rec.Code),
		zap.Duration("latency", rec.Latency),
	}
	if rec.Err != nil {
		c.log.Warn("okx call failed", append(fields, zap.Error(rec.Err))...)
	} else {
		c.log.Debug("okx call", fields...)
	}

	for _, o := range c.observers {
		o.ObserveCall(ctx, rec)
	}
}

// decodeReply: non-2xx и code != "0" - ExchangeError с сырым телом;
// для пакетных эндпоинтов смотрим ещё sCode по элементам.
func decodeReply[T any](op string, status int, raw []byte) (*Reply[T], error) {
	var head struct {
		Code string `json:"code"`
		Msg  string `json:"msg"`
		Data []struct {
			SCode string `json:"sCode"`
			SMsg  string `json:"sMsg"`
		} `json:"data"`
	}
	headErr := sonic.Unmarshal(raw, &head)

	if status/100 != 2 {
		return nil, &ExchangeError{Op: op, HTTPStatus: status, Code: head.Code, Msg: head.Msg, Raw: raw}
	}
	if headErr != nil {
		return nil, &ExchangeError{Op: op, HTTPStatus: status, Msg: "undecodable response: " + headErr.Error(), Raw: raw}
	}

	xerr := &ExchangeError{Op: op, HTTPStatus: status, Code: head.Code, Msg: head.Msg, Raw: raw}
	for _, d := range head.Data {
		if d.SCode != "" && d.SCode != "0" {
			xerr.SCode, xerr.SMsg = d.SCode, d.SMsg
			break
		}
	}
	if head.Code != "0" || xerr.SCode != "" {
		return nil, xerr
	}

	reply := &Reply[T]{}
	if err := sonic.Unmarshal(raw, reply); err != nil {
		return nil, &ExchangeError{Op: op, HTTPStatus: status, Code: head.Code, Msg: "undecodable data: " + err.Error(), Raw: raw}
	}
	reply.Raw = raw
	return reply, nil
}

func pathOnly(requestPath string) string {
	if i := strings.IndexByte(requestPath, '?'); i >= 0 {
		return requestPath[:i]
	}
	return requestPath
}
