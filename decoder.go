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

	"github.com/ZaparooProject/go-um3750/internal/frame"
	"periph.io/x/conn/v3/gpio"
)

// sampleOutcome tells what one recorded transition led to.
type sampleOutcome int

const (
	outcomeStored   sampleOutcome = iota // duration recorded, no sync edge
	outcomeHeld                          // sync edge ignored, an unread code is held
	outcomeRejected                      // sync edge, frame failed validation
	outcomeRepeated                      // sync edge, same code decoded again
	outcomeChanged                       // sync edge, a different code decoded
)

// decoderState is the receive state of one channel. The ring, cursor and
// last timestamp belong to the edge callback. The held code and the
// confidence are also read by the consumer, so they are atomics.
type decoderState struct {
	durations [frame.RingSize]uint32
	cursor    uint8
	lastTime  uint32

	minConfidence uint32

	// held packs the code value in the high 32 bits and the average
	// symbol period in microseconds in the low 32 bits, so a reader never
	// sees a value from one frame with the period of another.
	held       atomic.Uint64
	confidence atomic.Uint32
}

// reset zeroes the channel and sets its confidence threshold.
func (d *decoderState) reset(minConfidence uint8) {
	d.durations = [frame.RingSize]uint32{}
	d.cursor = 0
	d.lastTime = 0
	d.minConfidence = uint32(minConfidence)
	d.held.Store(0)
	d.confidence.Store(0)
}

func (d *decoderState) available() bool {
	return d.confidence.Load() >= d.minConfidence
}

func (d *decoderState) heldCode() (value uint16, avgMicros uint32) {
	packed := d.held.Load()
	return uint16(packed >> 32), uint32(packed)
}

func (d *decoderState) store(value uint16, avgMicros uint32) {
	d.held.Store(uint64(value)<<32 | uint64(avgMicros))
}

// sample records the transition to level seen at now (microseconds) and,
// if it looks like the rising edge of a sync symbol, tries to decode the
// frame that precedes it.
func (d *decoderState) sample(level gpio.Level, now uint32) sampleOutcome {
	cur := d.cursor
	duration := now - d.lastTime
	d.durations[cur] = duration
	d.lastTime = now
	d.cursor = (cur + 1) & frame.RingMask

	previous := d.durations[(cur-1)&frame.RingMask]
	if level != gpio.High || duration <= previous<<frame.SyncRatioShift {
		return outcomeStored
	}

	// An unread code stays put until the consumer resets it.
	if d.available() {
		return outcomeHeld
	}

	value, avg, ok := decodeFrame(&d.durations, cur)
	if !ok {
		return outcomeRejected
	}

	heldValue, heldAvg := d.heldCode()
	switch {
	case value != heldValue:
		d.store(value, avg)
		d.confidence.Store(1)
		return outcomeChanged
	case d.confidence.Load() == 0:
		// Same code after a reset: start the running average afresh.
		d.store(value, avg)
		d.confidence.Store(1)
		return outcomeRepeated
	default:
		d.store(value, (heldAvg+avg)/2)
		d.confidence.Add(1)
		return outcomeRepeated
	}
}

// decodeFrame reads the 12 data symbols recorded before the sync edge at
// index syncAt. Every symbol is a (low, high) pair of durations; a one has
// the shorter low part. It returns the value, the mean symbol period in
// microseconds, and whether every pair passed validation.
func decodeFrame(ring *[frame.RingSize]uint32, syncAt uint8) (value uint16, avg uint32, ok bool) {
	i := (syncAt - frame.FrameLookback) & frame.RingMask

	ts := ring[i] + ring[(i+1)&frame.RingMask]
	if ts <= frame.NoiseFloorMicros {
		return 0, 0, false
	}
	tolerance := ts >> frame.ToleranceShift
	minSplit := ts >> frame.MinSplitShift
	maxSplit := ts >> frame.MaxSplitShift

	var sum uint32
	for n := 0; n < frame.DataSymbols; n++ {
		low, high := ring[i], ring[(i+1)&frame.RingMask]
		period := low + high
		split := absDiff(low, high)

		if absDiff(period, ts) >= tolerance || split <= minSplit || split >= maxSplit {
			return 0, 0, false
		}

		value <<= 1
		if low < high {
			value |= 1
		}
		sum += period
		i = (i + frame.EdgesPerSymbol) & frame.RingMask
	}

	return value, sum / frame.DataSymbols, true
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
