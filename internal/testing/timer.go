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

package testing

import (
	"errors"
	"sync"
	"time"
)

// ErrNoPeriod is returned by ManualTimer.Enable before Configure.
var ErrNoPeriod = errors.New("timer period not configured")

// ManualTimer is a periodic timer that ticks only when Fire is called.
// When Clock is set, every tick first advances it by one period.
type ManualTimer struct {
	Clock *FakeClock

	mu         sync.Mutex
	resolution time.Duration
	period     uint32
	onTick     func()
	enabled    bool
	enables    int
	ConfigErr  error
}

// NewManualTimer creates a timer whose ticks last resolution.
func NewManualTimer(resolution time.Duration, clock *FakeClock) *ManualTimer {
	return &ManualTimer{resolution: resolution, Clock: clock}
}

// Configure sets the period in ticks.
func (t *ManualTimer) Configure(period uint32) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ConfigErr != nil {
		return t.ConfigErr
	}
	t.period = period
	return nil
}

// OnTick installs the callback.
func (t *ManualTimer) OnTick(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onTick = fn
}

// Callback returns the installed callback. Calling it later stands for a
// tick the timer had already taken when the callback was replaced.
func (t *ManualTimer) Callback() func() {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.onTick
}

// Enable arms the timer.
func (t *ManualTimer) Enable() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.period == 0 {
		return ErrNoPeriod
	}
	t.enabled = true
	t.enables++
	return nil
}

// Disable disarms the timer.
func (t *ManualTimer) Disable() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = false
}

// Resolution returns the tick duration.
func (t *ManualTimer) Resolution() time.Duration {
	return t.resolution
}

// Period returns the configured period in ticks.
func (t *ManualTimer) Period() uint32 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.period
}

// Enabled reports whether the timer is armed.
func (t *ManualTimer) Enabled() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enabled
}

// Enables returns how many times the timer was armed.
func (t *ManualTimer) Enables() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.enables
}

// Fire delivers up to n ticks, stopping early when the timer gets disabled,
// and returns how many were delivered.
func (t *ManualTimer) Fire(n int) int {
	fired := 0
	for ; fired < n; fired++ {
		t.mu.Lock()
		fn, enabled := t.onTick, t.enabled
		step := time.Duration(t.period) * t.resolution
		t.mu.Unlock()

		if !enabled || fn == nil {
			break
		}
		if t.Clock != nil {
			t.Clock.Advance(step)
		}
		fn()
	}
	return fired
}

// RunUntilDisabled fires ticks until the timer disables itself or max ticks
// have been delivered, and returns the number delivered.
func (t *ManualTimer) RunUntilDisabled(max int) int {
	return t.Fire(max)
}
