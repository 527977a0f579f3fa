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

package periph

import (
	"errors"
	"sync"
	"time"

	"github.com/ZaparooProject/go-um3750/hal"
	"periph.io/x/conn/v3/gpio"
)

var (
	// ErrNoEdgeDetection is returned when the pin cannot wait for edges.
	ErrNoEdgeDetection = errors.New("pin does not support edge detection")
	// ErrAlreadyAttached is returned when a pin is attached twice.
	ErrAlreadyAttached = errors.New("pin already attached")
	// ErrNotAttached is returned when detaching a pin that is not attached.
	ErrNotAttached = errors.New("pin not attached")
)

// edgeWaiter is the part of gpio.PinIn the edge source needs.
type edgeWaiter interface {
	WaitForEdge(timeout time.Duration) bool
}

// EdgeConfig configures an EdgeSource.
type EdgeConfig struct {
	// WaitTimeout bounds each WaitForEdge call, and so how long Detach may
	// take.
	WaitTimeout time.Duration
}

// DefaultEdgeConfig returns the default edge source configuration.
func DefaultEdgeConfig() *EdgeConfig {
	return &EdgeConfig{WaitTimeout: 100 * time.Millisecond}
}

type watch struct {
	stop chan struct{}
	done chan struct{}
}

// EdgeSource delivers pin edges by running one WaitForEdge goroutine per
// attached pin.
type EdgeSource struct {
	config *EdgeConfig

	mu      sync.Mutex
	watches map[hal.InputPin]*watch
}

// NewEdgeSource returns an edge source. A nil config uses the defaults.
func NewEdgeSource(config *EdgeConfig) *EdgeSource {
	if config == nil {
		config = DefaultEdgeConfig()
	}
	return &EdgeSource{
		config:  config,
		watches: make(map[hal.InputPin]*watch),
	}
}

// Attach starts watching pin, which must have been configured for edge
// detection (see OpenInput).
func (s *EdgeSource) Attach(pin hal.InputPin, onEdge func()) error {
	waiter, ok := pin.(edgeWaiter)
	if !ok {
		return ErrNoEdgeDetection
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.watches[pin]; ok {
		return ErrAlreadyAttached
	}
	w := &watch{stop: make(chan struct{}), done: make(chan struct{})}
	s.watches[pin] = w
	go s.run(waiter, onEdge, w)
	return nil
}

// Detach stops watching pin and waits for its goroutine, including a
// callback in flight, to return.
func (s *EdgeSource) Detach(pin hal.InputPin) error {
	s.mu.Lock()
	w, ok := s.watches[pin]
	delete(s.watches, pin)
	s.mu.Unlock()

	if !ok {
		return ErrNotAttached
	}
	close(w.stop)
	<-w.done
	return nil
}

// Close detaches every pin.
func (s *EdgeSource) Close() error {
	s.mu.Lock()
	watches := s.watches
	s.watches = make(map[hal.InputPin]*watch)
	s.mu.Unlock()

	for _, w := range watches {
		close(w.stop)
		<-w.done
	}
	return nil
}

func (s *EdgeSource) run(pin edgeWaiter, onEdge func(), w *watch) {
	defer close(w.done)

	for {
		select {
		case <-w.stop:
			return
		default:
		}
		if pin.WaitForEdge(s.config.WaitTimeout) {
			onEdge()
		}
	}
}

var (
	_ hal.EdgeSource = (*EdgeSource)(nil)
	_ hal.InputPin   = gpio.PinIn(nil)
	_ hal.OutputPin  = gpio.PinOut(nil)
)
