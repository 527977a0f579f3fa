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
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ZaparooProject/go-um3750/internal/frame"
	"github.com/ZaparooProject/go-um3750/internal/wait"
)

// Scheduler plays tick tables on the shared periodic timer. There is one per
// Engine; every Encoder of the engine goes through it, so at most one frame
// train is on the air at a time.
//
// States: Idle (timer disarmed) and Playing (timer armed, one level written
// per tick). Start waits cooperatively for Idle before arming.
type Scheduler struct {
	timer Timer
	stats *statsCounters

	// mu serialises arming against the tick callback.
	mu    sync.Mutex
	table TickTable
	pin   OutputPin
	index int
	refs  int
	// arm counts arms and releases. A tick bound to an older arm is one
	// the timer had already taken when it was disabled, and is dropped.
	arm uint64

	completed atomic.Uint32
	target    atomic.Uint32
}

func newScheduler(timer Timer, stats *statsCounters) *Scheduler {
	return &Scheduler{
		timer: timer,
		stats: stats,
	}
}

// acquire registers one more transmitting instance.
func (s *Scheduler) acquire() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.refs++
	debugf("transmit reference taken (%d active)", s.refs)
}

// release drops one transmitting instance. The timer is only torn down when
// the last one goes away.
func (s *Scheduler) release() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refs == 0 {
		return
	}
	s.refs--
	if s.refs > 0 {
		debugf("transmit reference released (%d still active)", s.refs)
		return
	}

	s.timer.Disable()
	s.timer.OnTick(nil)
	s.arm++
	s.target.Store(0)
	s.completed.Store(0)
	s.index = 0
	debugln("transmit timer released")
}

// Start arms the timer to play table repeat times on pin, one phase every
// third of symbol. If another train is playing it waits, yielding, until
// that one is done or ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context, table *TickTable, repeat uint32, pin OutputPin, symbol time.Duration) error {
	if repeat == 0 {
		return invalidConfig("repeat count is zero")
	}
	if pin == nil {
		return invalidConfig("no output pin bound")
	}
	period := TimerPeriod(symbol, s.timer.Resolution())
	if period == 0 {
		return invalidConfig("symbol duration %s too short for timer resolution %s", symbol, s.timer.Resolution())
	}

	err := wait.Until(ctx, func() (bool, error) {
		return s.tryArm(table, repeat, pin, period)
	})
	if err != nil {
		return fmt.Errorf("waiting for transmitter: %w", err)
	}
	return nil
}

// tryArm arms the timer if the scheduler is idle.
func (s *Scheduler) tryArm(table *TickTable, repeat uint32, pin OutputPin, period uint32) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.refs == 0 {
		return false, ErrTransmitDisabled
	}
	if s.playing() {
		return false, nil
	}

	s.table = *table
	s.pin = pin
	s.index = 0
	s.completed.Store(0)
	s.target.Store(repeat)

	s.arm++
	arm := s.arm
	s.timer.OnTick(func() { s.tick(arm) })

	if err := s.timer.Configure(period); err != nil {
		s.target.Store(0)
		return false, NewHardwareError("configure timer", err)
	}
	if err := s.timer.Enable(); err != nil {
		s.target.Store(0)
		return false, NewHardwareError("enable timer", err)
	}
	debugf("transmit armed: %d frames, period %d ticks", repeat, period)
	return true, nil
}

// tick runs once per timer period of the train armed as arm. It writes one
// level and advances the counters; nothing else.
func (s *Scheduler) tick(arm uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if arm != s.arm {
		return
	}
	target := s.target.Load()
	if target == 0 || s.completed.Load() >= target {
		return
	}

	if err := s.pin.Out(s.table[s.index]); err != nil {
		s.stats.writeErrors.Add(1)
	}
	s.stats.ticksEmitted.Add(1)

	s.index++
	if s.index < frame.TickTableLength {
		return
	}
	s.index = 0
	s.stats.framesTransmitted.Add(1)
	if s.completed.Add(1) == target {
		s.timer.Disable()
	}
}

func (s *Scheduler) playing() bool {
	target := s.target.Load()
	return target != 0 && s.completed.Load() < target
}

// IsTransmitting reports whether a frame train is being played.
func (s *Scheduler) IsTransmitting() bool {
	return s.playing()
}

// Progress returns the completed and requested frame counts of the current
// or last train.
func (s *Scheduler) Progress() (completed, target uint32) {
	return s.completed.Load(), s.target.Load()
}

// Wait blocks, yielding, until no train is playing or ctx is cancelled.
func (s *Scheduler) Wait(ctx context.Context) error {
	return wait.Until(ctx, func() (bool, error) {
		return !s.playing(), nil
	})
}
