package service

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// ConfigError - нет кредов. Фатально, поднимается до любого сетевого вызова.
type ConfigError struct {
	Field string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("okx config: %s is required", e.Field)
}

// ExchangeError - биржа ответила, но отказала (non-2xx или code != "0").
// Code/Msg и RAW отдаются наружу как есть.
type ExchangeError struct {
	Op         string
	HTTPStatus int
	Code       string
	Msg        string
	SCode      string
	SMsg       string
	Raw        []byte
}

func (e *ExchangeError) Error() string {
	if e.SCode != "" {
		return fmt.Sprintf("%s rejected: http=%d code=%s msg=%s sCode=%s sMsg=%s",
			e.Op, e.HTTPStatus, e.Code, e.Msg, e.SCode, e.SMsg)
	}
	return fmt.Sprintf("%s error: http=%d code=%s msg=%s", e.Op, e.HTTPStatus, e.Code, e.Msg)
}

// Payload - тело ответа биржи для клиента: json, если парсится, иначе строкой.
func (e *ExchangeError) Payload() any {
	if len(e.Raw) == 0 {
		return map[string]string{"code": e.Code, "msg": e.Msg}
	}
	var v any
	if err := sonic.Unmarshal(e.Raw, &v); err != nil {
		return string(e.Raw)
	}
	return v
}

// TransportError - до биржи не достучались: таймаут, DNS, reset.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s transport: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }
