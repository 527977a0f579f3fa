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
	"math"
	"time"

	"github.com/ZaparooProject/go-um3750/internal/frame"
	"periph.io/x/conn/v3/physic"
)

const (
	// DefaultSymbolDuration is the symbol time of a UM3750 running at 100 kHz.
	DefaultSymbolDuration = 960 * time.Microsecond

	// DefaultOscillator is the reference oscillator frequency of the encoder IC.
	DefaultOscillator = 100 * physic.KiloHertz

	// DefaultRepeat is how many times a code is sent when no count is given.
	// Most receivers lock on well before that.
	DefaultRepeat = 48

	// DefaultMinConfidence is how many identical frames a receive channel
	// must decode before it reports a code.
	DefaultMinConfidence = 3

	// DefaultTimerResolution is one tick of the reference periodic timer:
	// an 80 MHz clock divided by 16.
	DefaultTimerResolution = 200 * time.Nanosecond

	// MaxValue is the largest value that fits in a code.
	MaxValue = frame.ValueMask
)

// Code is a 12 bit UM3750 code together with the symbol duration it is
// (or was) transmitted with.
//
// Only the low 12 bits of Value are sent. Wider values are not rejected;
// the upper bits are simply never looked at, so callers must mask.
type Code struct {
	Value          uint16
	SymbolDuration time.Duration
}

// NewCode returns a code with the default symbol duration.
func NewCode(value uint16) Code {
	return Code{Value: value, SymbolDuration: DefaultSymbolDuration}
}

// NewCodeWithDuration returns a code sent with a custom symbol duration.
func NewCodeWithDuration(value uint16, symbol time.Duration) Code {
	return Code{Value: value, SymbolDuration: symbol}
}

// Bit returns bit i of the code, counted from the first symbol sent
// (the most significant of the 12 bits).
func (c Code) Bit(i int) bool {
	return (c.Value>>(frame.DataSymbols-1-i))&1 == 1
}

// IsZero reports whether c is the sentinel returned when no code is available.
func (c Code) IsZero() bool {
	return c.Value == 0 && c.SymbolDuration == 0
}

func (c Code) String() string {
	return fmt.Sprintf("%03X@%s", c.Value&frame.ValueMask, c.SymbolDuration)
}

// SymbolDurationFromOscillator returns the symbol duration produced by an
// encoder IC clocked at f. A symbol lasts 96 oscillator cycles.
func SymbolDurationFromOscillator(f physic.Frequency) time.Duration {
	if f <= 0 {
		return 0
	}
	return f.Period() * frame.OscillatorCyclesPerSymbol
}

// TimerPeriod returns the number of timer ticks between two phase changes
// for the given symbol duration and timer resolution. The timer fires once
// per phase, three times per symbol. A zero result means the symbol is too
// short to be played on that timer.
func TimerPeriod(symbol, resolution time.Duration) uint32 {
	if symbol <= 0 || resolution <= 0 {
		return 0
	}
	phase := float64(symbol) / frame.PhasesPerSymbol
	ticks := math.Round(phase / float64(resolution))
	if ticks > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(ticks)
}
