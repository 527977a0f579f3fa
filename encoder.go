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

package um3750

import (
	"context"
	"fmt"
	"sync"

	"periph.io/x/conn/v3/gpio"
)

// Encoder is one logical UM3750 encoder. Several encoders of the same Engine
// may be enabled at once, on different pins; they share the Engine's timer
// and take turns on it.
type Encoder struct {
	scheduler *Scheduler
	repeat    uint32

	mu      sync.Mutex
	pin     OutputPin
	enabled bool
}

// EnableTransmit binds the encoder to pin, drives it low and reserves the
// shared timer. Calling it again rebinds the encoder to another pin.
func (e *Encoder) EnableTransmit(pin OutputPin) error {
	if pin == nil {
		return invalidConfig("no output pin")
	}
	if err := pin.Out(gpio.Low); err != nil {
		return NewHardwareError("configure output", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.pin = pin
	if !e.enabled {
		e.scheduler.acquire()
		e.enabled = true
	}
	return nil
}

// DisableTransmit releases the shared timer. It only stops a train in
// flight when this was the last enabled encoder.
func (e *Encoder) DisableTransmit() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled {
		return
	}
	e.enabled = false
	e.scheduler.release()
}

// TransmitCode sends code the Engine's default number of times.
func (e *Encoder) TransmitCode(ctx context.Context, code Code) error {
	return e.TransmitCodeTimes(ctx, code, e.repeat)
}

// TransmitCodeTimes sends code times frames in a row. It returns once the
// train is armed; playback continues on the timer. If another encoder is
// transmitting, it waits for it first.
func (e *Encoder) TransmitCodeTimes(ctx context.Context, code Code, times uint32) error {
	e.mu.Lock()
	pin, enabled := e.pin, e.enabled
	e.mu.Unlock()

	if !enabled {
		return ErrTransmitDisabled
	}

	var table TickTable
	BuildTickTable(code, &table)

	if err := e.scheduler.Start(ctx, &table, times, pin, code.SymbolDuration); err != nil {
		return fmt.Errorf("transmit %s: %w", code, err)
	}
	return nil
}

// IsTransmitting reports whether any encoder sharing the timer is playing.
func (e *Encoder) IsTransmitting() bool {
	return e.scheduler.IsTransmitting()
}

// Wait blocks, yielding, until the current train has been played.
func (e *Encoder) Wait(ctx context.Context) error {
	return e.scheduler.Wait(ctx)
}
