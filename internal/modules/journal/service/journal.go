package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	okx "okx_exec_proxy/internal/modules/okx_client/service"
	"okx_exec_proxy/pkg/db"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

const createTableSQL = `
CREATE TABLE IF NOT EXISTS okx_call_journal (
	id          BIGSERIAL PRIMARY KEY,
	at          TIMESTAMPTZ NOT NULL,
	op          TEXT        NOT NULL,
	method      TEXT        NOT NULL,
	path        TEXT        NOT NULL,
	body        TEXT,
	http_status INT         NOT NULL DEFAULT 0,
	code        TEXT        NOT NULL DEFAULT '',
	latency_ms  BIGINT      NOT NULL DEFAULT 0,
	error       TEXT,
	detail      JSONB
)`

const insertSQL = `
INSERT INTO okx_call_journal (at, op, method, path, body, http_status, code, latency_ms, error, detail)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

// Journal - аудит исходящих вызовов к бирже. Только запись: ни один торговый
// путь его не читает. Пишет фоном, запрос не ждёт базу.
type Journal struct {
	tx  db.TxManager
	log *zap.Logger

	// mu охраняет ch от отправки после close: запрос, переживший
	// Shutdown, может дойти до ObserveCall уже после Stop.
	mu      sync.RWMutex
	closed  bool
	ch      chan okx.CallRecord
	wg      sync.WaitGroup
	dropped atomic.Int64
}

// NewJournal: tx == nil => журнал выключен, ObserveCall ничего не делает.
func NewJournal(tx db.TxManager, buffer int, log *zap.Logger) *Journal {
	if log == nil {
		log = zap.NewNop()
	}
	if buffer <= 0 {
		buffer = 256
	}
	j := &Journal{tx: tx, log: log.Named("journal")}
	if tx != nil {
		j.ch = make(chan okx.CallRecord, buffer)
	}
	return j
}

func (j *Journal) Enabled() bool { return j.tx != nil }

func (j *Journal) Dropped() int64 { return j.dropped.Load() }

func (j *Journal) EnsureSchema(ctx context.Context) error {
	if !j.Enabled() {
		return nil
	}
	_, err := j.tx.Conn().Exec(ctx, createTableSQL)
	return err
}

// ObserveCall не блокирует: буфер полон - запись теряется и считается.
func (j *Journal) ObserveCall(_ context.Context, rec okx.CallRecord) {
	if !j.Enabled() {
		return
	}
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.closed {
		j.dropped.Add(1)
		j.log.Warn("journal stopped, record dropped", zap.String("op", rec.Op))
		return
	}
	select {
	case j.ch <- rec:
	default:
		j.dropped.Add(1)
		j.log.Warn("journal buffer full, record dropped", zap.String("op", rec.Op))
	}
}

func (j *Journal) Start() {
	if !j.Enabled() {
		return
	}
	j.wg.Add(1)
	go func() {
		defer j.wg.Done()
		for rec := range j.ch {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			if err := j.write(ctx, rec); err != nil {
				j.log.Warn("journal write failed", zap.String("op", rec.Op), zap.Error(err))
			}
			cancel()
		}
	}()
}

// Stop дописывает то, что уже в буфере.
func (j *Journal) Stop() {
	if !j.Enabled() {
		return
	}
	j.mu.Lock()
	if !j.closed {
		j.closed = true
		close(j.ch)
	}
	j.mu.Unlock()
	j.wg.Wait()
}

func (j *Journal) write(ctx context.Context, rec okx.CallRecord) error {
	var body, errText *string
	if len(rec.Body) > 0 {
		s := string(rec.Body)
		body = &s
	}
	if rec.Err != nil {
		s := rec.Err.Error()
		errText = &s
	}
	detail, err := sonic.Marshal(map[string]any{
		"timestamp": rec.Timestamp,
		"latency":   rec.Latency.String(),
	})
	if err != nil {
		return err
	}

	return j.tx.RunMaster(ctx, func(ctxTx context.Context, tx db.Transaction) error {
		_, err := tx.Exec(ctxTx, insertSQL,
			rec.At, rec.Op, rec.Method, rec.Path, body,
			rec.HTTPStatus, rec.Code, rec.Latency.Milliseconds(), errText, string(detail))
		return err
	})
}
