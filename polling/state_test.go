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

package polling

import (
	"testing"
	"time"

	um3750 "github.com/ZaparooProject/go-um3750"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestCodeState_Transitions(t *testing.T) {
	t.Parallel()

	fake := clockwork.NewFakeClock()
	var cs CodeState
	noop := func(uint64) {}

	assert.Zero(t, cs.HeldFor())

	cs.TransitionToHeld(fake, um3750.NewCode(0x0AA), time.Second, noop)
	first := cs.generation
	assert.Equal(t, StateHeld, cs.DetectionState)
	assert.True(t, cs.Present)
	assert.True(t, cs.Current(first))

	fake.Advance(300 * time.Millisecond)
	cs.TransitionToHeld(fake, um3750.NewCode(0x0AA), time.Second, noop)
	assert.Equal(t, 1, cs.Repeats)
	assert.False(t, cs.Current(first), "re-arming replaces the release timer")

	// a copy reports the same hold time as the original
	snapshot := cs
	assert.Equal(t, 300*time.Millisecond, snapshot.HeldFor())
	assert.Equal(t, cs.HeldFor(), snapshot.HeldFor())

	// a different code starts a new hold
	fake.Advance(100 * time.Millisecond)
	cs.TransitionToHeld(fake, um3750.NewCode(0x055), time.Second, noop)
	assert.Zero(t, cs.Repeats)
	assert.Zero(t, cs.HeldFor())

	held := cs.generation
	cs.TransitionToIdle()
	assert.Equal(t, StateIdle, cs.DetectionState)
	assert.False(t, cs.Present)
	assert.Nil(t, cs.ReleaseTimer)
	assert.False(t, cs.Current(held))
	assert.Zero(t, cs.HeldFor())
}

func TestCodeState_HeldForOnMonitorSnapshot(t *testing.T) {
	t.Parallel()

	m, fake := newFakeMonitor(t, &queueSource{})
	m.processCode(um3750.NewCode(0x7E7))
	fake.Advance(40 * time.Millisecond)
	m.processCode(um3750.NewCode(0x7E7))

	assert.Equal(t, 40*time.Millisecond, m.GetState().HeldFor())
}

func TestCodeDetectionState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "idle", StateIdle.String())
	assert.Equal(t, "held", StateHeld.String())
	assert.Equal(t, "unknown", CodeDetectionState(7).String())
}
