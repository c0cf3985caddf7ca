// Package scheduler provides the reference implementation of
// ports.Scheduler: a fixed-period ticker per registered task, the
// single seam sweepers (idempotency eviction, expired-lock reaping,
// rate-limiter idle cleanup) register through instead of each owning
// its own background goroutine.
package scheduler

import (
	"context"
	"sync"
	"time"
)

// Ticker runs registered tasks on their own goroutine, each driven by
// a time.Ticker, until Stop is called.
type Ticker struct {
	wg   sync.WaitGroup
	done chan struct{}
	once sync.Once
}

// New constructs a Ticker with no tasks running yet.
func New() *Ticker {
	return &Ticker{done: make(chan struct{})}
}

// Schedule runs task every period in its own goroutine, starting after
// the first tick, until the Ticker is stopped or ctx is cancelled.
// Panics inside task are not recovered — a sweeper that panics is a bug
// in the sweeper, not something the scheduler should paper over.
func (t *Ticker) Schedule(ctx context.Context, period time.Duration, task func(ctx context.Context)) {
	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		ticker := time.NewTicker(period)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				task(ctx)
			case <-ctx.Done():
				return
			case <-t.done:
				return
			}
		}
	}()
}

// Stop signals every registered task to return and waits for them to
// exit. Safe to call multiple times.
func (t *Ticker) Stop() {
	t.once.Do(func() { close(t.done) })
	t.wg.Wait()
}
