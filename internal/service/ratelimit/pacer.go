package ratelimit

import (
	"context"
	"sync"
	"time"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Pacer enforces a fixed delay between consecutive calls to Wait. The first
// call returns immediately.
type Pacer struct {
	delay time.Duration
	sleep SleepFunc

	mu      sync.Mutex
	started bool
}

type PacerOption func(*Pacer)

// WithSleep replaces the real sleep, mostly for tests.
func WithSleep(fn SleepFunc) PacerOption {
	return func(p *Pacer) { p.sleep = fn }
}

func NewPacer(delay time.Duration, opts ...PacerOption) *Pacer {
	p := &Pacer{delay: delay, sleep: Sleep}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Wait blocks until the next call is allowed. It returns ctx.Err() if the
// context ends first.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	first := !p.started
	p.started = true
	p.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if first || p.delay <= 0 {
		return nil
	}
	return p.sleep(ctx, p.delay)
}

// Reset makes the next Wait return immediately.
func (p *Pacer) Reset() {
	p.mu.Lock()
	p.started = false
	p.mu.Unlock()
}

// Sleep is a context-aware time.Sleep.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
