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
	"time"

	"github.com/ZaparooProject/go-um3750/internal/frame"
	"periph.io/x/conn/v3/gpio"
)

// TickTableLength is the number of phases in one transmitted frame.
const TickTableLength = frame.TickTableLength

// TickTable holds the output level of every phase of one frame.
//
// Each symbol is three phases of equal length. The first is always low,
// the second carries the bit and the third is always high:
//
//	     ________                ____
//	    |                       |
//	____|               ________|
//	    One                 Zero
//
// The frame is a sync symbol (identical to a zero), the 12 data symbols most
// significant bit first, then 11 symbols of silence.
type TickTable [TickTableLength]gpio.Level

// BuildTickTable fills table with the frame for code. Only the low 12 bits
// of the value are encoded.
func BuildTickTable(code Code, table *TickTable) {
	for i := range table {
		table[i] = gpio.Low
	}

	table[frame.PhasesPerSymbol-1] = gpio.High // sync

	for i := 0; i < frame.DataSymbols; i++ {
		base := frame.FirstDataTick + i*frame.PhasesPerSymbol
		table[base] = gpio.Low
		table[base+1] = gpio.Level(code.Bit(i))
		table[base+2] = gpio.High
	}
}

// NewTickTable returns the frame for code.
func NewTickTable(code Code) TickTable {
	var t TickTable
	BuildTickTable(code, &t)
	return t
}

// Pulse is one run of constant level on the line.
type Pulse struct {
	Level    gpio.Level
	Duration time.Duration
}

// Pulses collapses the table into runs of equal level, each phase lasting a
// third of symbol. The first run starts at phase zero and the last one ends
// with the frame; repeated frames join the trailing silence to the next
// sync's leading low phases.
func (t *TickTable) Pulses(symbol time.Duration) []Pulse {
	phase := symbol / frame.PhasesPerSymbol
	pulses := make([]Pulse, 0, 2*frame.DataSymbols+4)

	current := Pulse{Level: t[0]}
	for _, level := range t {
		if level != current.Level {
			pulses = append(pulses, current)
			current = Pulse{Level: level}
		}
		current.Duration += phase
	}
	return append(pulses, current)
}
