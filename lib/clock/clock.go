// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction so the poll
// loop and lock-release waits are testable. Production code injects
// Real(); tests inject NewFake() and advance time deterministically.
package clock

import "time"

// Clock abstracts the time operations docshell performs. Production
// functions that would call time.Now, time.NewTicker, or time.Sleep
// take a Clock instead.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// NewTicker returns a Ticker delivering ticks on C at the given
	// interval. Panics if d <= 0.
	NewTicker(d time.Duration) *Ticker

	// Sleep pauses the calling goroutine for at least duration d.
	Sleep(d time.Duration)
}

// Ticker wraps a periodic timer. Read ticks from C; call Stop to
// release resources. C has capacity 1: if the consumer falls behind,
// ticks are dropped rather than queued.
type Ticker struct {
	C <-chan time.Time

	stopFunc func()
}

// Stop turns off the ticker. No more ticks arrive on C after Stop
// returns. Stop does not close C.
func (t *Ticker) Stop() { t.stopFunc() }
