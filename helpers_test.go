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
	"github.com/stretchr/testify/require"
)

type testRig struct {
	engine *Engine
	timer  *testutil.ManualTimer
	bus    *testutil.EdgeBus
	clock  *testutil.FakeClock
}

func newTestRig(t *testing.T, opts ...Option) *testRig {
	t.Helper()

	clock := &testutil.FakeClock{}
	timer := testutil.NewManualTimer(DefaultTimerResolution, clock)
	bus := testutil.NewEdgeBus()

	engine, err := New(Hardware{Timer: timer, Edges: bus, Clock: clock}, opts...)
	require.NoError(t, err)

	return &testRig{engine: engine, timer: timer, bus: bus, clock: clock}
}

// feed plays edges into d starting at start microseconds and returns the
// outcome of each one.
func feed(d *decoderState, edges []testutil.Edge, start uint32) []sampleOutcome {
	now := start
	outcomes := make([]sampleOutcome, 0, len(edges))
	for _, e := range edges {
		now += e.Micros
		outcomes = append(outcomes, d.sample(e.Level, now))
	}
	return outcomes
}

// tableEdges turns the tick table of code into the transitions a receiver
// sees for frames back-to-back frames, plus the sync edge of the next one.
func tableEdges(code Code, frames int) []testutil.Edge {
	table := NewTickTable(code)

	var runs []Pulse
	for k := 0; k < frames+1; k++ {
		for _, p := range table.Pulses(code.SymbolDuration) {
			if n := len(runs); n > 0 && runs[n-1].Level == p.Level {
				runs[n-1].Duration += p.Duration
				continue
			}
			runs = append(runs, p)
		}
	}

	// every run but the last ends with a transition to the other level
	edges := make([]testutil.Edge, 0, len(runs))
	for _, r := range runs[:len(runs)-1] {
		edges = append(edges, testutil.Edge{
			Level:  !r.Level,
			Micros: uint32(r.Duration / time.Microsecond),
		})
	}

	// 26 transitions per frame; keep the sync edge of the extra frame only
	return edges[:frames*26+1]
}

func count(outcomes []sampleOutcome, want sampleOutcome) int {
	n := 0
	for _, o := range outcomes {
		if o == want {
			n++
		}
	}
	return n
}
