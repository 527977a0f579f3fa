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

package serialline

import (
	"errors"
	"sync"
	"time"

	"github.com/ZaparooProject/go-um3750/hal"
	"github.com/jonboulle/clockwork"
	"periph.io/x/conn/v3/gpio"
)

var (
	// ErrUnknownSignal is returned for a modem signal name that does not exist.
	ErrUnknownSignal = errors.New("unknown modem signal")
	// ErrAlreadyAttached is returned when a pin is attached twice.
	ErrAlreadyAttached = errors.New("pin already attached")
	// ErrNotAttached is returned when detaching a pin that is not attached.
	ErrNotAttached = errors.New("pin not attached")
)

type poller struct {
	stop chan struct{}
	done chan struct{}
}

// EdgeSource finds edges by sampling inputs at a fixed interval. Modem
// status lines raise no interrupt a user space program can wait on across
// platforms, so edges shorter than the interval are missed.
type EdgeSource struct {
	clock    clockwork.Clock
	interval time.Duration

	mu      sync.Mutex
	pollers map[hal.InputPin]*poller
}

// NewEdgeSource returns a polled edge source sampling every interval.
func NewEdgeSource(interval time.Duration) *EdgeSource {
	return NewEdgeSourceWithClock(clockwork.NewRealClock(), interval)
}

// NewEdgeSourceWithClock returns a polled edge source running on c.
func NewEdgeSourceWithClock(c clockwork.Clock, interval time.Duration) *EdgeSource {
	if interval <= 0 {
		interval = DefaultConfig("").PollInterval
	}
	return &EdgeSource{
		clock:    c,
		interval: interval,
		pollers:  make(map[hal.InputPin]*poller),
	}
}

// Attach starts sampling pin. The current level is the reference, so the
// first callback is for the first change.
func (s *EdgeSource) Attach(pin hal.InputPin, onEdge func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pollers[pin]; ok {
		return ErrAlreadyAttached
	}
	p := &poller{stop: make(chan struct{}), done: make(chan struct{})}
	s.pollers[pin] = p

	ticker := s.clock.NewTicker(s.interval)
	go s.run(pin, pin.Read(), onEdge, ticker, p)
	return nil
}

// Detach stops sampling pin and waits for a callback in flight.
func (s *EdgeSource) Detach(pin hal.InputPin) error {
	s.mu.Lock()
	p, ok := s.pollers[pin]
	delete(s.pollers, pin)
	s.mu.Unlock()

	if !ok {
		return ErrNotAttached
	}
	close(p.stop)
	<-p.done
	return nil
}

func (*EdgeSource) run(pin hal.InputPin, last gpio.Level, onEdge func(), ticker clockwork.Ticker, p *poller) {
	defer close(p.done)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.Chan():
		}

		if level := pin.Read(); level != last {
			last = level
			onEdge()
		}
	}
}

var (
	_ hal.EdgeSource = (*EdgeSource)(nil)
	_ hal.OutputPin  = (*Output)(nil)
	_ hal.InputPin   = (*Input)(nil)
)
