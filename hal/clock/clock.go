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

// Package clock provides the software timing backends of the engine: a
// monotonic microsecond clock and a periodic timer on the Go scheduler.
package clock

import (
	"time"

	"github.com/jonboulle/clockwork"
)

// origin anchors the fallback clock on platforms without a raw monotonic
// counter.
var origin = time.Now()

// Monotonic reads the host monotonic clock in microseconds. The value wraps
// around every 71 minutes; only differences are meaningful.
type Monotonic struct{}

// NewMonotonic returns the host monotonic clock.
func NewMonotonic() *Monotonic {
	return &Monotonic{}
}

// Micros returns the current time in microseconds.
func (*Monotonic) Micros() uint32 {
	return uint32(monotonicNanos() / int64(time.Microsecond))
}

// Clockwork adapts a clockwork clock, real or fake, to a microsecond clock.
type Clockwork struct {
	clock clockwork.Clock
	start time.Time
}

// NewClockwork returns a microsecond clock counting from now on c.
func NewClockwork(c clockwork.Clock) *Clockwork {
	return &Clockwork{clock: c, start: c.Now()}
}

// Micros returns the microseconds elapsed since the clock was created.
func (c *Clockwork) Micros() uint32 {
	return uint32(c.clock.Since(c.start) / time.Microsecond)
}
