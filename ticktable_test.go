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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
)

func TestBuildTickTable_Scenario(t *testing.T) {
	t.Parallel()

	table := NewTickTable(NewCode(0b101100110010))

	assert.Equal(t, []gpio.Level{gpio.Low, gpio.Low, gpio.High}, table[0:3], "sync symbol")
	assert.Equal(t, []gpio.Level{gpio.Low, gpio.High, gpio.High}, table[3:6], "first bit is a one")
	assert.Equal(t, []gpio.Level{gpio.Low, gpio.Low, gpio.High}, table[6:9], "second bit is a zero")
	for i := 39; i < TickTableLength; i++ {
		assert.Equal(t, gpio.Low, table[i], "silence at tick %d", i)
	}
}

func TestBuildTickTable_ShapeForEveryCode(t *testing.T) {
	t.Parallel()

	for v := uint16(0); v <= MaxValue; v++ {
		table := NewTickTable(NewCode(v))

		require.Len(t, table, 72)
		require.Equal(t, gpio.High, table[2], "code %03X sync", v)

		for i := 0; i < 12; i++ {
			base := 3 + 3*i
			bit := (v>>(11-i))&1 == 1
			require.Equal(t, gpio.Low, table[base], "code %03X symbol %d", v, i)
			require.Equal(t, gpio.Level(bit), table[base+1], "code %03X symbol %d", v, i)
			require.Equal(t, gpio.High, table[base+2], "code %03X symbol %d", v, i)
		}
		for i := 39; i < 72; i++ {
			require.Equal(t, gpio.Low, table[i], "code %03X tick %d", v, i)
		}
	}
}

func TestBuildTickTable_IgnoresHighBits(t *testing.T) {
	t.Parallel()

	assert.Equal(t, NewTickTable(NewCode(0x0A5)), NewTickTable(NewCode(0xF0A5)))
}

func TestBuildTickTable_OverwritesBuffer(t *testing.T) {
	t.Parallel()

	var table TickTable
	for i := range table {
		table[i] = gpio.High
	}
	BuildTickTable(NewCode(0), &table)

	assert.Equal(t, NewTickTable(NewCode(0)), table)
}

func TestTickTable_Pulses(t *testing.T) {
	t.Parallel()

	table := NewTickTable(NewCode(0xB32))
	pulses := table.Pulses(960 * time.Microsecond)

	var total time.Duration
	for i, p := range pulses {
		total += p.Duration
		if i > 0 {
			assert.NotEqual(t, pulses[i-1].Level, p.Level, "runs alternate")
		}
	}
	assert.Equal(t, 24*960*time.Microsecond, total)

	require.NotEmpty(t, pulses)
	assert.Equal(t, Pulse{Level: gpio.Low, Duration: 640 * time.Microsecond}, pulses[0])
	assert.Equal(t, Pulse{Level: gpio.High, Duration: 320 * time.Microsecond}, pulses[1])
	assert.Equal(t, Pulse{Level: gpio.Low, Duration: 11 * 960 * time.Microsecond}, pulses[len(pulses)-1])
	// sync low, sync high, then a low and a high run per data symbol, then silence
	assert.Len(t, pulses, 2+24+1)
}

func TestTimerPeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		symbol     time.Duration
		resolution time.Duration
		want       uint32
	}{
		{name: "Default", symbol: DefaultSymbolDuration, resolution: DefaultTimerResolution, want: 1600},
		{name: "Rounded_Up", symbol: 1000 * time.Microsecond, resolution: DefaultTimerResolution, want: 1667},
		{name: "Rounded_Down", symbol: 500 * time.Microsecond, resolution: DefaultTimerResolution, want: 833},
		{name: "Microsecond_Timer", symbol: DefaultSymbolDuration, resolution: time.Microsecond, want: 320},
		{name: "Zero_Symbol", symbol: 0, resolution: DefaultTimerResolution, want: 0},
		{name: "Zero_Resolution", symbol: DefaultSymbolDuration, resolution: 0, want: 0},
		{name: "Too_Short", symbol: 100 * time.Nanosecond, resolution: DefaultTimerResolution, want: 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, TimerPeriod(tt.symbol, tt.resolution))
		})
	}
}

func TestSymbolDurationFromOscillator(t *testing.T) {
	t.Parallel()

	assert.Equal(t, DefaultSymbolDuration, SymbolDurationFromOscillator(DefaultOscillator))
	assert.Equal(t, 1920*time.Microsecond, SymbolDurationFromOscillator(DefaultOscillator/2))
	assert.Equal(t, time.Duration(0), SymbolDurationFromOscillator(0))
}

func TestCode(t *testing.T) {
	t.Parallel()

	c := NewCode(0xB32)
	assert.Equal(t, DefaultSymbolDuration, c.SymbolDuration)
	assert.True(t, c.Bit(0))
	assert.False(t, c.Bit(1))
	assert.True(t, c.Bit(2))
	assert.False(t, c.Bit(11))
	assert.Equal(t, "B32@960µs", c.String())
	assert.False(t, c.IsZero())
	assert.True(t, Code{}.IsZero())
}
