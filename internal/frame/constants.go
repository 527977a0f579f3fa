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

// Package frame provides frame layout and decoder constants for the UM3750 pulse protocol
package frame

// Symbol and frame layout
const (
	PhasesPerSymbol = 3  // low, data level, high
	DataSymbols     = 12 // bits per code
	FrameSymbols    = 24 // sync + 12 data + 11 symbols of silence

	TickTableLength = PhasesPerSymbol * FrameSymbols              // 72 phases per frame
	FirstDataTick   = PhasesPerSymbol                             // data starts after the sync symbol
	SilenceTick     = FirstDataTick + PhasesPerSymbol*DataSymbols // 39

	ValueMask = 1<<DataSymbols - 1 // 0x0FFF
)

// Receive ring. The size must stay a power of two so that wrapping is a mask.
const (
	RingSize = 32
	RingMask = RingSize - 1

	// EdgesPerSymbol is the number of durations recorded for one data symbol
	// (the low part then the high part).
	EdgesPerSymbol = 2

	// FrameLookback is the distance from the sync edge back to the low part
	// of the first data symbol.
	FrameLookback = DataSymbols * EdgesPerSymbol // 24
)

// Validation thresholds. Ratios are right shifts of the reference symbol period.
const (
	SyncRatioShift = 3 // sync interval must exceed 8x the preceding one
	ToleranceShift = 5 // pair sums must agree with the reference within 1/32
	MinSplitShift  = 3 // halves must differ by more than 1/8 of the period
	MaxSplitShift  = 1 // halves must differ by less than 1/2 of the period

	// NoiseFloorMicros is the shortest reference period accepted as a symbol.
	NoiseFloorMicros = 200
)

// OscillatorCyclesPerSymbol is the number of encoder oscillator cycles in one symbol.
const OscillatorCyclesPerSymbol = 96
