package world

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Work is a unit of world mutation executed on the tick goroutine.
type Work func(*Registry)

// Loop is the world tick. Network and database goroutines hand their
// results over with Submit instead of touching the index directly, which
// keeps every mutation of a map on a single goroutine.
type Loop struct {
	reg      *Registry
	interval time.Duration
	queue    chan Work
	ticks    atomic.Uint64
	executed atomic.Uint64
}

// NewLoop creates a tick loop with a bounded work queue.
func NewLoop(reg *Registry, interval time.Duration, queueSize int) *Loop {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	if queueSize <= 0 {
		queueSize = 1024
	}
	return &Loop{
		reg:      reg,
		interval: interval,
		queue:    make(chan Work, queueSize),
	}
}

// Submit enqueues w for the next tick. It never blocks.
func (l *Loop) Submit(w Work) error {
	select {
	case l.queue <- w:
		return nil
	default:
		return ErrQueueFull
	}
}

// Run ticks until ctx is canceled.
func (l *Loop) Run(ctx context.Context) error {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	slog.Info("world loop started", "interval", l.interval, "queue", cap(l.queue))

	for {
		select {
		case <-ctx.Done():
			slog.Info("world loop stopping", "ticks", l.ticks.Load(), "executed", l.executed.Load())
			return ctx.Err()
		case <-ticker.C:
			l.tick()
		}
	}
}

// tick runs the work queued before it started; later submissions wait
// for the next tick.
func (l *Loop) tick() {
	n := len(l.queue)
	for range n {
		w := <-l.queue
		w(l.reg)
	}
	l.ticks.Add(1)
	l.executed.Add(uint64(n))
	if n > 0 {
		slog.Debug("world tick", "work", n)
	}
}

// Ticks returns the number of completed ticks.
func (l *Loop) Ticks() uint64 {
	return l.ticks.Load()
}

// Pending returns the number of queued work items.
func (l *Loop) Pending() int {
	return len(l.queue)
}
