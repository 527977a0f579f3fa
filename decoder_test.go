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

	testutil "github.com/ZaparooProject/go-um3750/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3/gpio"
)

func newDecoder(minConfidence uint8) *decoderState {
	d := &decoderState{}
	d.reset(minConfidence)
	return d
}

func TestDecode_RoundTripEveryCode(t *testing.T) {
	t.Parallel()

	for v := uint16(0); v <= MaxValue; v++ {
		d := newDecoder(1)
		outcomes := feed(d, tableEdges(NewCode(v), 1), 1000)

		require.Equal(t, 1, count(outcomes, outcomeChanged)+count(outcomes, outcomeRepeated), "code %03X", v)
		value, avg := d.heldCode()
		require.Equal(t, v, value, "code %03X", v)
		require.Equal(t, uint32(960), avg, "code %03X", v)
		require.True(t, d.available())
	}
}

func TestDecode_MatchesReferenceWaveform(t *testing.T) {
	t.Parallel()

	d := newDecoder(1)
	feed(d, testutil.Train(0xB32, 960, 1), 0)

	value, _ := d.heldCode()
	assert.Equal(t, uint16(0xB32), value)
	assert.Equal(t, uint32(1), d.confidence.Load())
}

func TestDecode_FirstSyncRejectedOnEmptyRing(t *testing.T) {
	t.Parallel()

	d := newDecoder(3)
	outcomes := feed(d, testutil.FrameEdges(0x123, 960), 0)

	assert.Equal(t, outcomeRejected, outcomes[0])
	assert.Equal(t, 1, count(outcomes, outcomeRejected))
	assert.Equal(t, uint32(0), d.confidence.Load())
}

func TestDecode_DebounceMonotonic(t *testing.T) {
	t.Parallel()

	d := newDecoder(5)
	edges := testutil.FrameEdges(0x5A5, 960)

	// the first sync sees an empty ring
	now := uint32(0)
	for _, e := range edges {
		now += e.Micros
		d.sample(e.Level, now)
	}

	for n := uint32(1); n <= 5; n++ {
		for _, e := range edges {
			now += e.Micros
			d.sample(e.Level, now)
		}
		assert.Equal(t, n, d.confidence.Load(), "after %d identical frames", n)
	}
	assert.True(t, d.available())

	// further identical frames are held back until the code is reset
	outcomes := feed(d, testutil.Train(0x5A5, 960, 3), now)
	assert.Equal(t, 4, count(outcomes, outcomeHeld))
	assert.Equal(t, uint32(5), d.confidence.Load())
}

func TestDecode_ResetOnChange(t *testing.T) {
	t.Parallel()

	d := newDecoder(10)
	edges := append(testutil.FrameEdges(0xAAA, 960), testutil.FrameEdges(0xAAA, 960)...)
	outcomes := feed(d, append(edges, testutil.FrameEdges(0x555, 960)[0]), 0)

	require.Equal(t, 2, count(outcomes, outcomeRepeated)+count(outcomes, outcomeChanged))
	require.Equal(t, uint32(2), d.confidence.Load())
	value, _ := d.heldCode()
	require.Equal(t, uint16(0xAAA), value)

	outcomes = feed(d, testutil.Train(0x555, 960, 1)[1:], d.lastTime)
	assert.Equal(t, 1, count(outcomes, outcomeChanged))
	value, _ = d.heldCode()
	assert.Equal(t, uint16(0x555), value)
	assert.Equal(t, uint32(1), d.confidence.Load())
}

func TestDecode_AverageIsFolded(t *testing.T) {
	t.Parallel()

	d := newDecoder(10)
	edges := testutil.FrameEdges(0x0F0, 960)
	edges = append(edges, testutil.FrameEdges(0x0F0, 960)...)
	edges = append(edges, testutil.FrameEdges(0x0F0, 990)...)
	edges = append(edges, testutil.FrameEdges(0x0F0, 990)[0])
	feed(d, edges, 0)

	_, avg := d.heldCode()
	assert.Equal(t, uint32(3), d.confidence.Load())
	assert.Equal(t, uint32((960+990)/2), avg)
}

func TestDecode_ResetRestartsCount(t *testing.T) {
	t.Parallel()

	d := newDecoder(2)
	now := uint32(0)
	for _, e := range testutil.Train(0x321, 960, 2) {
		now += e.Micros
		d.sample(e.Level, now)
	}
	require.True(t, d.available())

	d.confidence.Store(0)
	outcomes := feed(d, testutil.Train(0x321, 960, 1)[1:], now)

	assert.Equal(t, 1, count(outcomes, outcomeRepeated))
	assert.Equal(t, uint32(1), d.confidence.Load())
	_, avg := d.heldCode()
	assert.Equal(t, uint32(960), avg)
}

func TestDecode_AverageRestartsAfterReset(t *testing.T) {
	t.Parallel()

	t.Run("Same_Code_After_Reset", func(t *testing.T) {
		t.Parallel()
		d := newDecoder(2)
		feed(d, testutil.Train(0x0F0, 900, 2), 0)
		require.True(t, d.available())
		_, avg := d.heldCode()
		require.Equal(t, uint32(900), avg)

		d.confidence.Store(0)
		feed(d, testutil.Train(0x0F0, 990, 1)[1:], d.lastTime)

		value, avg := d.heldCode()
		assert.Equal(t, uint16(0x0F0), value)
		assert.Equal(t, uint32(1), d.confidence.Load())
		assert.Equal(t, uint32(990), avg, "not folded with the acknowledged frames")
	})

	t.Run("Code_Zero_On_Fresh_Channel", func(t *testing.T) {
		t.Parallel()
		d := newDecoder(3)
		outcomes := feed(d, testutil.Train(0x000, 960, 1), 0)

		assert.Equal(t, 1, count(outcomes, outcomeRepeated))
		value, avg := d.heldCode()
		assert.Zero(t, value)
		assert.Equal(t, uint32(1), d.confidence.Load())
		assert.Equal(t, uint32(960), avg, "an empty channel is not averaged with zero")
	})
}

func TestDecode_NoiseRejection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		symbol    int
		low, high uint32
	}{
		{name: "Halves_Too_Similar", symbol: 4, low: 470, high: 490},
		{name: "Halves_Too_Different", symbol: 7, low: 200, high: 760},
		{name: "Period_Too_Long", symbol: 11, low: 320, high: 700},
		{name: "Period_Too_Short", symbol: 2, low: 600, high: 300},
		{name: "Reference_Period_Off", symbol: 0, low: 250, high: 560},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d := newDecoder(1)
			frames := testutil.Train(0xFFF, 960, 1)
			// frames[2+2k] is the low part of symbol k, frames[3+2k] its high part
			frames[2+2*tt.symbol].Micros = tt.low
			frames[3+2*tt.symbol].Micros = tt.high

			outcomes := feed(d, frames, 0)

			assert.Equal(t, 2, count(outcomes, outcomeRejected))
			assert.Zero(t, count(outcomes, outcomeChanged)+count(outcomes, outcomeRepeated))
			assert.Equal(t, uint32(0), d.confidence.Load())
			value, avg := d.heldCode()
			assert.Zero(t, value)
			assert.Zero(t, avg)
		})
	}
}

func TestDecode_NoiseFloor(t *testing.T) {
	t.Parallel()

	d := newDecoder(1)
	outcomes := feed(d, testutil.Train(0x0F0, 150, 2), 0)

	assert.Equal(t, 3, count(outcomes, outcomeRejected))
	assert.False(t, d.available())
}

func TestDecode_ClockWrapAround(t *testing.T) {
	t.Parallel()

	d := newDecoder(1)
	// start a few symbols before the 32 bit microsecond counter wraps
	feed(d, testutil.Train(0x9C3, 960, 1), ^uint32(0)-20_000)

	value, avg := d.heldCode()
	assert.Equal(t, uint16(0x9C3), value)
	assert.Equal(t, uint32(960), avg)
}

func TestDecode_HeldCodeKeepsSampling(t *testing.T) {
	t.Parallel()

	d := newDecoder(1)
	now := uint32(0)
	for _, e := range testutil.Train(0x00F, 960, 1) {
		now += e.Micros
		d.sample(e.Level, now)
	}
	require.True(t, d.available())
	cursor := d.cursor

	assert.Equal(t, outcomeStored, d.sample(gpio.Low, now+320))
	assert.Equal(t, outcomeHeld, d.sample(gpio.High, now+20_000))
	assert.Equal(t, (cursor+2)&31, d.cursor)
	assert.Equal(t, now+20_000, d.lastTime)
}

func TestDecode_OnlyRisingEdgesAreSyncCandidates(t *testing.T) {
	t.Parallel()

	d := newDecoder(1)
	d.sample(gpio.High, 100)
	assert.Equal(t, outcomeStored, d.sample(gpio.Low, 100+uint32(50*time.Millisecond/time.Microsecond)))
}
