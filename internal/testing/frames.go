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

package testing

import "periph.io/x/conn/v3/gpio"

// Edge is one transition as seen by a receiver: the level after it and the
// time elapsed since the previous transition, in microseconds.
type Edge struct {
	Level  gpio.Level
	Micros uint32
}

// FrameEdges returns the transitions of one UM3750 frame carrying value,
// with symbolMicros per symbol. The first edge is the rising edge of the
// sync symbol, preceded by the silence of a previous frame; the last one is
// the falling edge that ends the final data symbol.
func FrameEdges(value uint16, symbolMicros uint32) []Edge {
	third := symbolMicros / 3
	edges := []Edge{
		// silence (11 symbols) plus the two low phases of the sync symbol
		{Level: gpio.High, Micros: 11*symbolMicros + 2*third},
	}

	high := third // sync symbol high phase
	for i := 11; i >= 0; i-- {
		low, next := Split((value>>i)&1 == 1, symbolMicros)
		edges = append(edges,
			Edge{Level: gpio.Low, Micros: high},
			Edge{Level: gpio.High, Micros: low},
		)
		high = next
	}
	return append(edges, Edge{Level: gpio.Low, Micros: high})
}

// Train returns the transitions of n back-to-back frames carrying value,
// followed by the sync edge of one more frame so the last one is decoded.
func Train(value uint16, symbolMicros uint32, n int) []Edge {
	var edges []Edge
	for k := 0; k < n; k++ {
		edges = append(edges, FrameEdges(value, symbolMicros)...)
	}
	return append(edges, FrameEdges(value, symbolMicros)[0])
}

// Split returns the two parts of a symbol for a bit: the low part then the
// high part, in microseconds.
func Split(bit bool, symbolMicros uint32) (low, high uint32) {
	third := symbolMicros / 3
	if bit {
		return third, 2 * third
	}
	return 2 * third, third
}
