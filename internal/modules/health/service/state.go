package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	okx "okx_exec_proxy/internal/modules/okx_client/service"
)

// State - готовность процесса и след последнего вызова к бирже.
// Заполняется наблюдателем клиента, читается /healthz.
type State struct {
	ready     atomic.Bool
	startedAt time.Time

	lastCallUnix   atomic.Int64 // unix millis
	lastTransport  atomic.Bool
	calls          atomic.Int64
	exchangeErrors atomic.Int64
	transportErrs  atomic.Int64
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) ObserveCall(_ context.Context, rec okx.CallRecord) {
	s.calls.Add(1)
	s.lastCallUnix.Store(rec.At.UnixMilli())

	var terr *okx.TransportError
	var xerr *okx.ExchangeError
	switch {
	case errors.As(rec.Err, &terr):
		s.transportErrs.Add(1)
		s.lastTransport.Store(true)
	case errors.As(rec.Err, &xerr):
		s.exchangeErrors.Add(1)
		s.lastTransport.Store(false)
	default:
		s.lastTransport.Store(false)
	}
}

func (s *State) LastCall() time.Time {
	u := s.lastCallUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.UnixMilli(u)
}

// LastCallFailedTransport - последний вызов не дошёл до биржи.
func (s *State) LastCallFailedTransport() bool { return s.lastTransport.Load() }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

type Snapshot struct {
	Ready             bool  `json:"ready"`
	UptimeSec         int64 `json:"uptimeSec"`
	LastCallUnix      int64 `json:"lastCallUnix"`
	LastCallTransport bool  `json:"lastCallTransportError"`
	Calls             int64 `json:"calls"`
	ExchangeErrors    int64 `json:"exchangeErrors"`
	TransportErrors   int64 `json:"transportErrors"`
}

func (s *State) Snapshot() Snapshot {
	var last int64
	if t := s.LastCall(); !t.IsZero() {
		last = t.Unix()
	}
	return Snapshot{
		Ready:             s.Ready(),
		UptimeSec:         int64(s.Uptime().Seconds()),
		LastCallUnix:      last,
		LastCallTransport: s.LastCallFailedTransport(),
		Calls:             s.calls.Load(),
		ExchangeErrors:    s.exchangeErrors.Load(),
		TransportErrors:   s.transportErrs.Load(),
	}
}
