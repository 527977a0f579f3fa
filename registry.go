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
	"fmt"
	"sync"
)

// channel is one slot of the receive pool.
type channel struct {
	// mu is held by the edge callback for the whole sample, and by Free
	// while retiring the slot, so a callback never runs on a freed slot.
	mu     sync.Mutex
	pin    InputPin
	active bool
	state  decoderState
}

// Registry is the fixed pool of receive channels of an Engine. Every slot
// gets its edge handler once, when the pool is built; allocating a slot
// only attaches that handler to a pin.
type Registry struct {
	edges EdgeSource
	clock Clock
	stats *statsCounters

	mu       sync.Mutex
	slots    []channel
	handlers []func()
	used     []bool
}

func newRegistry(capacity int, edges EdgeSource, clock Clock, stats *statsCounters) *Registry {
	r := &Registry{
		edges:    edges,
		clock:    clock,
		stats:    stats,
		slots:    make([]channel, capacity),
		handlers: make([]func(), capacity),
		used:     make([]bool, capacity),
	}
	for i := range r.handlers {
		ch := &r.slots[i]
		r.handlers[i] = func() { r.onEdge(ch) }
	}
	return r
}

// Capacity returns the number of slots in the pool.
func (r *Registry) Capacity() int {
	return len(r.slots)
}

// InUse returns the number of allocated slots.
func (r *Registry) InUse() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, u := range r.used {
		if u {
			n++
		}
	}
	return n
}

// Allocate takes the first free slot, clears it and starts decoding the
// transitions of pin into it. It fails with ErrPoolExhausted when every slot
// is taken.
func (r *Registry) Allocate(pin InputPin, minConfidence uint8) (*Receiver, error) {
	if pin == nil {
		return nil, invalidConfig("no input pin")
	}
	if minConfidence == 0 {
		return nil, invalidConfig("minimum confidence must be at least 1")
	}
	if r.edges == nil || r.clock == nil {
		return nil, invalidConfig("receiving needs an edge source and a clock")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	slot := -1
	for i, u := range r.used {
		if !u {
			slot = i
			break
		}
	}
	if slot < 0 {
		return nil, fmt.Errorf("%w: all %d channels in use", ErrPoolExhausted, len(r.slots))
	}

	ch := &r.slots[slot]
	ch.mu.Lock()
	ch.pin = pin
	ch.state.reset(minConfidence)
	ch.active = true
	ch.mu.Unlock()

	if err := r.edges.Attach(pin, r.handlers[slot]); err != nil {
		ch.mu.Lock()
		ch.active = false
		ch.pin = nil
		ch.mu.Unlock()
		return nil, NewHardwareError("attach edge interrupt", err)
	}

	r.used[slot] = true
	debugf("receive channel %d allocated (min confidence %d)", slot, minConfidence)
	return &Receiver{registry: r, slot: slot}, nil
}

// free detaches the slot's pin and returns the slot to the pool.
func (r *Registry) free(slot int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.used[slot] {
		return nil
	}

	ch := &r.slots[slot]
	ch.mu.Lock()
	pin := ch.pin
	ch.mu.Unlock()

	// Detach may wait for a callback in flight, which needs ch.mu.
	err := r.edges.Detach(pin)

	ch.mu.Lock()
	ch.active = false
	ch.pin = nil
	ch.mu.Unlock()

	r.used[slot] = false
	debugf("receive channel %d freed", slot)
	return NewHardwareError("detach edge interrupt", err)
}

// onEdge is the edge callback of one slot.
func (r *Registry) onEdge(ch *channel) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	if !ch.active {
		return
	}
	level := ch.pin.Read()
	now := r.clock.Micros()
	r.stats.recordSample(ch.state.sample(level, now))
}
