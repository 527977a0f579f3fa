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

import "sync/atomic"

// Stats is a snapshot of an Engine's counters.
type Stats struct {
	TicksEmitted      uint64 // levels written by the transmit timer
	FramesTransmitted uint64 // complete frames played
	WriteErrors       uint64 // output pin writes that failed
	EdgesSampled      uint64 // transitions recorded by receive channels
	SyncCandidates    uint64 // transitions that looked like a sync edge
	FramesAccepted    uint64 // candidates that passed every check
	FramesRejected    uint64 // candidates discarded as noise
	CodesChanged      uint64 // accepted frames carrying a new code
}

// statsCounters is updated from tick and edge callbacks, one atomic add per event.
type statsCounters struct {
	ticksEmitted      atomic.Uint64
	framesTransmitted atomic.Uint64
	writeErrors       atomic.Uint64
	edgesSampled      atomic.Uint64
	syncCandidates    atomic.Uint64
	framesAccepted    atomic.Uint64
	framesRejected    atomic.Uint64
	codesChanged      atomic.Uint64
}

func (s *statsCounters) recordSample(o sampleOutcome) {
	s.edgesSampled.Add(1)
	switch o {
	case outcomeRejected:
		s.syncCandidates.Add(1)
		s.framesRejected.Add(1)
	case outcomeRepeated:
		s.syncCandidates.Add(1)
		s.framesAccepted.Add(1)
	case outcomeChanged:
		s.syncCandidates.Add(1)
		s.framesAccepted.Add(1)
		s.codesChanged.Add(1)
	case outcomeStored, outcomeHeld:
	}
}

func (s *statsCounters) snapshot() Stats {
	return Stats{
		TicksEmitted:      s.ticksEmitted.Load(),
		FramesTransmitted: s.framesTransmitted.Load(),
		WriteErrors:       s.writeErrors.Load(),
		EdgesSampled:      s.edgesSampled.Load(),
		SyncCandidates:    s.syncCandidates.Load(),
		FramesAccepted:    s.framesAccepted.Load(),
		FramesRejected:    s.framesRejected.Load(),
		CodesChanged:      s.codesChanged.Load(),
	}
}
