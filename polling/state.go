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
	"errors"
	"time"

	um3750 "github.com/ZaparooProject/go-um3750"
	"github.com/jonboulle/clockwork"
)

// CodeDetectionState represents the finite state machine for code detection
type CodeDetectionState int

const (
	// StateIdle means no code is held.
	StateIdle CodeDetectionState = iota
	// StateHeld means a code was seen recently and its release timer runs.
	StateHeld
)

func (s CodeDetectionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHeld:
		return "held"
	default:
		return "unknown"
	}
}

// CodeState tracks the code currently held on a receiver
type CodeState struct {
	FirstSeenTime  time.Time
	LastSeenTime   time.Time
	ReleaseTimer   clockwork.Timer
	LastCode       um3750.Code
	Repeats        int
	DetectionState CodeDetectionState
	Present        bool

	// generation invalidates release timers that fire after being replaced.
	generation uint64
}

// ErrNoCodeInPoll indicates no code was available during polling (not an error condition)
var ErrNoCodeInPoll = errors.New("no code available in polling cycle")

func stopTimer(timer clockwork.Timer) {
	if timer != nil {
		timer.Stop()
	}
}

// TransitionToHeld records code as seen now and (re)arms the release timer.
// The callback receives the generation it was armed for.
func (cs *CodeState) TransitionToHeld(clock clockwork.Clock, code um3750.Code, timeout time.Duration, callback func(generation uint64)) {
	now := clock.Now()
	if !cs.Present || cs.LastCode.Value != code.Value {
		cs.FirstSeenTime = now
		cs.Repeats = 0
	} else {
		cs.Repeats++
	}
	cs.DetectionState = StateHeld
	cs.Present = true
	cs.LastCode = code
	cs.LastSeenTime = now

	stopTimer(cs.ReleaseTimer)
	cs.generation++
	gen := cs.generation
	cs.ReleaseTimer = clock.AfterFunc(timeout, func() { callback(gen) })
}

// TransitionToIdle resets to idle state
func (cs *CodeState) TransitionToIdle() {
	cs.DetectionState = StateIdle
	cs.Present = false
	cs.LastCode = um3750.Code{}
	cs.Repeats = 0
	cs.FirstSeenTime = time.Time{}
	cs.LastSeenTime = time.Time{}
	stopTimer(cs.ReleaseTimer)
	cs.ReleaseTimer = nil
	cs.generation++
}

// Current reports whether generation is the one the state was last armed with.
func (cs *CodeState) Current(generation uint64) bool {
	return cs.generation == generation
}

// HeldFor returns how long the current code has been held.
func (cs CodeState) HeldFor() time.Duration {
	if !cs.Present {
		return 0
	}
	return cs.LastSeenTime.Sub(cs.FirstSeenTime)
}
