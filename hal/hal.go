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

// Package hal defines the hardware the UM3750 engine drives: digital pins,
// a periodic timer, an edge interrupt source and a microsecond clock.
// Backends live in the subpackages.
package hal

import (
	"time"

	"periph.io/x/conn/v3/gpio"
)

// OutputPin drives a digital output. Writing a level configures the pin as
// an output if it is not one already. gpio.PinOut satisfies it.
type OutputPin interface {
	Out(l gpio.Level) error
}

// InputPin reads a digital input. gpio.PinIn satisfies it.
type InputPin interface {
	Read() gpio.Level
}

// Timer is a periodic timer.
//
// Implementations must allow Disable to be called from inside the tick
// callback, and must not invoke the callback synchronously from Configure
// or Enable.
type Timer interface {
	// Configure sets the number of timer ticks between two callbacks.
	Configure(period uint32) error

	// OnTick installs the callback run once per period. nil removes it.
	OnTick(fn func())

	// Enable starts the timer.
	Enable() error

	// Disable stops the timer. Ticks already in flight may still run,
	// with the callback that was installed when they were taken, even
	// after OnTick(nil) or a following Configure and Enable. Callers that
	// re-arm bind each callback to its arm and drop stale ticks.
	Disable()

	// Resolution returns the duration of one timer tick.
	Resolution() time.Duration
}

// EdgeSource delivers a callback on every logic transition of an input pin.
type EdgeSource interface {
	// Attach routes the transitions of pin to onEdge.
	Attach(pin InputPin, onEdge func()) error

	// Detach stops routing transitions of pin. A callback already running
	// may still complete after Detach returns.
	Detach(pin InputPin) error
}

// Clock is a monotonic microsecond clock. It may wrap around.
type Clock interface {
	Micros() uint32
}
