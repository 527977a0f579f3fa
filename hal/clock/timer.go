// go-um3750
// Copyright (c) 2025 The Zaparoo Project Contributors.
// SPDX-License-Identifier: LGPL-3.0-or-later
//
// This file is part of go-um3750.
//
// go-um3750 is free software; you can redistribute it and/or
// modify it under the terms of the GNU Lesser General Public
// License as published by the Free Software Foundation; either
// version 3 of the License, or (at your option) any later version.
//
// go-um3750 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with go-um3750; if not, write to the Free Software Foundation,
// Inc., 51 Franklin Street, Fifth Floor, Boston, MA  02110-1301, USA.

package clock

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// ErrNoPeriod is returned by Enable before a period has been configured.
var ErrNoPeriod = errors.New("timer period not configured")

// Option configures a Timer.
type Option func(*Timer)

// WithClock runs the timer on c instead of the real clock.
func WithClock(c clockwork.Clock) Option {
	return func(t *Timer) {
		t.clock = c
	}
}

// Timer is a periodic timer driven by a ticker goroutine. Its resolution is
// nominal: the ticker fires every period*resolution, with the jitter of the
// Go scheduler.
type Timer struct {
	clock      clockwork.Clock
	resolution time.Duration

	mu     sync.Mutex
	period uint32
	fn     func()
	stop   chan struct{}

	ticks atomic.Uint64
}

// NewTimer returns a disabled timer whose ticks last resolution.
func NewTimer(resolution time.Duration, opts ...Option) *Timer {
	if resolution <= 0 {
		resolution = time.Microsecond
	}
	t := &Timer{
		clock:      clockwork.NewRealClock(),
		resolution: resolution,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Configure sets the number of ticks between two callbacks. A running timer
// picks the new period up on its next Enable.
func (t *Timer) Configure(period uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.period = period
	return nil
}

// OnTick installs the callback. nil removes it.
func (t *Timer) OnTick(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fn = fn
}

// Enable starts the ticker goroutine. Enabling a running timer is a no-op.
func (t *Timer) Enable() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.period == 0 {
		return ErrNoPeriod
	}
	if t.stop != nil {
		return nil
	}

	t.stop = make(chan struct{})
	ticker := t.clock.NewTicker(time.Duration(t.period) * t.resolution)
	go t.run(ticker, t.stop)
	return nil
}

// Disable stops the ticker goroutine without waiting for it, so it may be
// called from the callback. A callback the goroutine has already picked up
// still runs once after Disable returns, even if OnTick replaced it.
func (t *Timer) Disable() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.stop == nil {
		return
	}
	close(t.stop)
	t.stop = nil
}

// Resolution returns the duration of one tick.
func (t *Timer) Resolution() time.Duration {
	return t.resolution
}

// Enabled reports whether the ticker goroutine is running.
func (t *Timer) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stop != nil
}

// Ticks returns how many callbacks have been run.
func (t *Timer) Ticks() uint64 {
	return t.ticks.Load()
}

func (t *Timer) run(ticker clockwork.Ticker, stop <-chan struct{}) {
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.Chan():
		}

		// a tick and a stop may be ready together
		select {
		case <-stop:
			return
		default:
		}

		t.mu.Lock()
		fn := t.fn
		t.mu.Unlock()

		if fn != nil {
			fn()
			t.ticks.Add(1)
		}
	}
}
