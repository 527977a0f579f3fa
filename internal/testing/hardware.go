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

// Package testing provides virtual hardware for exercising the encoder and
// decoder without pins, timers or interrupts.
package testing

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/go-um3750/hal"
	"periph.io/x/conn/v3/gpio"
)

// ErrNotAttached is returned by EdgeBus.Detach for a pin that was never attached.
var ErrNotAttached = errors.New("pin not attached")

// FakeClock is a microsecond clock that only moves when told to.
type FakeClock struct {
	nanos atomic.Int64
}

// Micros implements the engine clock.
func (c *FakeClock) Micros() uint32 {
	return uint32(c.nanos.Load() / int64(time.Microsecond))
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.nanos.Add(int64(d))
}

// Set moves the clock to us microseconds.
func (c *FakeClock) Set(us uint32) {
	c.nanos.Store(int64(us) * int64(time.Microsecond))
}

// RecordingPin is an output pin remembering every level written to it.
type RecordingPin struct {
	mu      sync.Mutex
	writes  []gpio.Level
	FailErr error
}

// Out records l, or fails with FailErr when set.
func (p *RecordingPin) Out(l gpio.Level) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.FailErr != nil {
		return p.FailErr
	}
	p.writes = append(p.writes, l)
	return nil
}

// Writes returns a copy of the recorded levels.
func (p *RecordingPin) Writes() []gpio.Level {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]gpio.Level(nil), p.writes...)
}

// EdgeBus is an edge source whose transitions are triggered by hand.
type EdgeBus struct {
	mu        sync.Mutex
	handlers  map[hal.InputPin]func()
	AttachErr error
}

// NewEdgeBus creates an empty edge bus.
func NewEdgeBus() *EdgeBus {
	return &EdgeBus{handlers: make(map[hal.InputPin]func())}
}

// Attach routes Trigger(pin) to onEdge.
func (b *EdgeBus) Attach(pin hal.InputPin, onEdge func()) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.AttachErr != nil {
		return b.AttachErr
	}
	b.handlers[pin] = onEdge
	return nil
}

// Detach removes the handler of pin.
func (b *EdgeBus) Detach(pin hal.InputPin) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.handlers[pin]; !ok {
		return ErrNotAttached
	}
	delete(b.handlers, pin)
	return nil
}

// Attached reports whether pin has a handler.
func (b *EdgeBus) Attached(pin hal.InputPin) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.handlers[pin]
	return ok
}

// Trigger runs the handler of pin, if any, and reports whether one ran.
func (b *EdgeBus) Trigger(pin hal.InputPin) bool {
	b.mu.Lock()
	fn := b.handlers[pin]
	b.mu.Unlock()
	if fn == nil {
		return false
	}
	fn()
	return true
}

// Line is a wire: levels written to it are read back, and every change of
// level is delivered as an edge through the bus.
type Line struct {
	bus    *EdgeBus
	mu     sync.Mutex
	level  gpio.Level
	writes int
}

// NewLine creates a low line delivering edges on bus.
func NewLine(bus *EdgeBus) *Line {
	return &Line{bus: bus}
}

// Out drives the line.
func (l *Line) Out(level gpio.Level) error {
	l.mu.Lock()
	changed := level != l.level
	l.level = level
	l.writes++
	l.mu.Unlock()

	if changed {
		l.bus.Trigger(l)
	}
	return nil
}

// Read returns the current level.
func (l *Line) Read() gpio.Level {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// Writes returns how many times the line was driven.
func (l *Line) Writes() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.writes
}

// Level is an input pin stuck at a level that tests set directly.
type Level struct {
	v atomic.Bool
}

// Read implements the input pin.
func (p *Level) Read() gpio.Level {
	return gpio.Level(p.v.Load())
}

// Set changes the level.
func (p *Level) Set(l gpio.Level) {
	p.v.Store(bool(l))
}
