// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"sync"
	"time"
)

// Fake is a deterministic Clock for tests. Time stands still until the
// test calls Advance. Sleepers and tickers whose deadlines fall within
// an Advance fire during that call.
type Fake struct {
	mu      sync.Mutex
	now     time.Time
	waiters []*fakeWaiter
	changed *sync.Cond
}

type fakeWaiter struct {
	target time.Time
	// period is zero for sleepers, the tick interval for tickers.
	period  time.Duration
	channel chan time.Time
	stopped bool
}

// NewFake returns a Fake starting at a fixed, arbitrary instant.
func NewFake() *Fake {
	fake := &Fake{now: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	fake.changed = sync.NewCond(&fake.mu)
	return fake
}

// Now returns the fake's current time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// NewTicker returns a ticker that fires as the fake time advances past
// multiples of d.
func (f *Fake) NewTicker(d time.Duration) *Ticker {
	if d <= 0 {
		panic("clock: non-positive ticker interval")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	waiter := &fakeWaiter{
		target:  f.now.Add(d),
		period:  d,
		channel: make(chan time.Time, 1),
	}
	f.waiters = append(f.waiters, waiter)
	f.changed.Broadcast()

	return &Ticker{
		C: waiter.channel,
		stopFunc: func() {
			f.mu.Lock()
			defer f.mu.Unlock()
			waiter.stopped = true
		},
	}
}

// Sleep blocks the calling goroutine until the fake time advances by at
// least d.
func (f *Fake) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}

	f.mu.Lock()
	waiter := &fakeWaiter{
		target:  f.now.Add(d),
		channel: make(chan time.Time, 1),
	}
	f.waiters = append(f.waiters, waiter)
	f.changed.Broadcast()
	f.mu.Unlock()

	<-waiter.channel
}

// Advance moves the fake time forward by d, firing every sleeper and
// ticker whose deadline falls within the advanced window. Tickers fire
// once per elapsed period; ticks beyond the channel's capacity of 1 are
// dropped, matching time.Ticker.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.now = f.now.Add(d)

	remaining := f.waiters[:0]
	for _, waiter := range f.waiters {
		if waiter.stopped {
			continue
		}
		for !waiter.target.After(f.now) {
			select {
			case waiter.channel <- waiter.target:
			default:
			}
			if waiter.period == 0 {
				break
			}
			waiter.target = waiter.target.Add(waiter.period)
		}
		if waiter.period != 0 || waiter.target.After(f.now) {
			remaining = append(remaining, waiter)
		}
	}
	f.waiters = remaining
}

// BlockUntil blocks until at least n sleepers or tickers are waiting on
// the fake. Tests use it to make sure the code under test has reached
// its timed wait before Advance fires it.
func (f *Fake) BlockUntil(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.activeWaiters() < n {
		f.changed.Wait()
	}
}

func (f *Fake) activeWaiters() int {
	count := 0
	for _, waiter := range f.waiters {
		if !waiter.stopped {
			count++
		}
	}
	return count
}
