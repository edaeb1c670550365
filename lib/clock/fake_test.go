// Copyright 2026 The Docshell Authors
// SPDX-License-Identifier: Apache-2.0

package clock

import (
	"testing"
	"time"

	"github.com/docshell-project/docshell/lib/testutil"
)

func TestFakeNowAdvances(t *testing.T) {
	fake := NewFake()
	start := fake.Now()

	fake.Advance(30 * time.Second)
	if got := fake.Now().Sub(start); got != 30*time.Second {
		t.Errorf("advanced by %v, want 30s", got)
	}
}

func TestFakeTickerFires(t *testing.T) {
	fake := NewFake()
	ticker := fake.NewTicker(10 * time.Second)
	defer ticker.Stop()

	select {
	case <-ticker.C:
		t.Fatal("ticker fired before any time passed")
	default:
	}

	fake.Advance(10 * time.Second)
	testutil.RequireReceive(t, ticker.C, time.Second, "first tick")

	fake.Advance(25 * time.Second)
	testutil.RequireReceive(t, ticker.C, time.Second, "tick after multi-period advance")
}

func TestFakeTickerDropsOverflow(t *testing.T) {
	fake := NewFake()
	ticker := fake.NewTicker(time.Second)
	defer ticker.Stop()

	// Five elapsed periods but channel capacity one: exactly one tick
	// is deliverable, like time.Ticker under a slow receiver.
	fake.Advance(5 * time.Second)
	testutil.RequireReceive(t, ticker.C, time.Second, "buffered tick")
	select {
	case <-ticker.C:
		t.Fatal("more than one tick buffered")
	default:
	}
}

func TestFakeStoppedTickerNeverFires(t *testing.T) {
	fake := NewFake()
	ticker := fake.NewTicker(time.Second)
	ticker.Stop()

	fake.Advance(10 * time.Second)
	select {
	case <-ticker.C:
		t.Fatal("stopped ticker fired")
	default:
	}
}

func TestFakeSleep(t *testing.T) {
	fake := NewFake()
	done := make(chan struct{})

	go func() {
		fake.Sleep(3 * time.Second)
		close(done)
	}()

	fake.BlockUntil(1)
	select {
	case <-done:
		t.Fatal("Sleep returned before the fake advanced")
	default:
	}

	fake.Advance(3 * time.Second)
	testutil.RequireClosed(t, done, time.Second, "sleeper woke")
}

func TestFakeSleepNonPositive(t *testing.T) {
	fake := NewFake()
	// Must not block.
	fake.Sleep(0)
	fake.Sleep(-time.Second)
}

func TestRealClockTicker(t *testing.T) {
	real := Real()
	ticker := real.NewTicker(time.Millisecond)
	defer ticker.Stop()

	testutil.RequireReceive(t, ticker.C, time.Second, "real ticker tick")
}
