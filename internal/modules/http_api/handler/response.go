package handler

import (
	"net/http"

	okx "okx_exec_proxy/internal/modules/okx_client/service"
	"okx_exec_proxy/internal/modules/trading/service"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	KindValidation = "validation"
	KindExchange   = "exchange"
	KindTransport  = "transport"
	KindConfig     = "config"
	KindInternal   = "internal"
)

type errorResponse struct {
	OK     bool   `json:"ok"`
	Kind   string `json:"kind"`
	Error  string `json:"error"`
	Detail any    `json:"detail,omitempty"`
	// Result - то, что успело выполниться до ошибки (многошаговые операции не откатываются).
	Result any `json:"result,omitempty"`
}

func Ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

func Error(c *gin.Context, status int, kind, message string, detail any) {
	c.JSON(status, errorResponse{
		Kind:   kind,
		Error:  message,
		Detail: detail,
	})
}

// Fail раскладывает ошибку по таксономии: validation 400, биржа - её статус
// или 502, транспорт 502 без payload.
func Fail(c *gin.Context, err error, partial any) {
	status, resp := classify(err)
	resp.Result = partial
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, resp)
}

func classify(err error) (int, errorResponse) {
	resp := errorResponse{Error: err.Error()}

	var (
		verr *service.ValidationError
		xerr *okx.ExchangeError
		terr *okx.TransportError
		cerr *okx.ConfigError
	)
	switch {
	case errors.As(err, &verr):
		resp.Kind = KindValidation
		return http.StatusBadRequest, resp
	case errors.Is(err, service.ErrFlatPosition):
		resp.Kind = KindValidation
		return http.StatusConflict, resp
	case errors.As(err, &xerr):
		resp.Kind = KindExchange
		resp.Detail = xerr.Payload()
		if xerr.HTTPStatus >= http.StatusBadRequest {
			return xerr.HTTPStatus, resp
		}
		return http.StatusBadGateway, resp
	case errors.As(err, &terr):
		resp.Kind = KindTransport
		return http.StatusBadGateway, resp
	case errors.As(err, &cerr):
		resp.Kind = KindConfig
		return http.StatusInternalServerError, resp
	}
	resp.Kind = KindInternal
	return http.StatusInternalServerError, resp
}

func badRequest(c *gin.Context, err error) {
	Error(c, http.StatusBadRequest, KindValidation, "invalid body: "+err.Error(), nil)
}
