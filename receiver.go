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
	"sync/atomic"
	"time"
)

// Receiver is one allocated receive channel. Its query methods never block
// and may be called from any goroutine while edges are being decoded.
type Receiver struct {
	registry *Registry
	slot     int
	closed   atomic.Bool
}

func (r *Receiver) state() *decoderState {
	return &r.registry.slots[r.slot].state
}

// Slot returns the pool slot the receiver occupies.
func (r *Receiver) Slot() int {
	return r.slot
}

// IsCodeAvailable reports whether the held code has been decoded at least
// the configured minimum number of times.
func (r *Receiver) IsCodeAvailable() bool {
	if r.closed.Load() {
		return false
	}
	return r.state().available()
}

// ReceivedCode returns the held code and its average symbol duration, or
// the zero Code when none is available. It does not consume the code.
func (r *Receiver) ReceivedCode() Code {
	if !r.IsCodeAvailable() {
		return Code{}
	}
	value, avg := r.state().heldCode()
	return Code{Value: value, SymbolDuration: time.Duration(avg) * time.Microsecond}
}

// Confidence returns how many identical frames have been decoded since the
// held code last changed or was reset. It can grow right after the call.
func (r *Receiver) Confidence() uint32 {
	if r.closed.Load() {
		return 0
	}
	return r.state().confidence.Load()
}

// ResetReceivedCode acknowledges the held code so decoding resumes. It must
// be called after reading a code to receive the next one.
func (r *Receiver) ResetReceivedCode() {
	if r.closed.Load() {
		return
	}
	r.state().confidence.Store(0)
}

// Close detaches the pin and frees the slot. Further calls return
// ErrChannelClosed.
func (r *Receiver) Close() error {
	if !r.closed.CompareAndSwap(false, true) {
		return ErrChannelClosed
	}
	return r.registry.free(r.slot)
}
