package service

import (
	"context"
	"sync/atomic"
	"time"
)

type Clock interface {
	Now() time.Time
}

type LocalClock struct{}

func (LocalClock) Now() time.Time { return time.Now() }

// ServerClock - локальные часы со смещением до часов биржи. Смещение меряется
// на старте; каждый вызов всё равно получает свежий timestamp.
type ServerClock struct {
	offset atomic.Int64
	synced atomic.Bool
}

func NewServerClock() *ServerClock {
	return &ServerClock{}
}

func (c *ServerClock) Now() time.Time {
	return time.Now().Add(time.Duration(c.offset.Load()))
}

func (c *ServerClock) Offset() time.Duration { return time.Duration(c.offset.Load()) }
func (c *ServerClock) Synced() bool          { return c.synced.Load() }

// Sync берёт середину round-trip как момент, когда биржа отдала своё время.
func (c *ServerClock) Sync(ctx context.Context, fetch func(ctx context.Context) (time.Time, error)) error {
	before := time.Now()
	server, err := fetch(ctx)
	if err != nil {
		return err
	}
	after := time.Now()

	mid := before.Add(after.Sub(before) / 2)
	c.offset.Store(int64(server.Sub(mid)))
	c.synced.Store(true)
	return nil
}
