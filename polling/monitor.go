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
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	um3750 "github.com/ZaparooProject/go-um3750"
	"github.com/jonboulle/clockwork"
)

// CodeSource is the consumer side of a receive channel. *um3750.Receiver
// satisfies it.
type CodeSource interface {
	IsCodeAvailable() bool
	ReceivedCode() um3750.Code
	ResetReceivedCode()
}

// Monitor errors
var (
	ErrMonitorRunning = errors.New("monitor is already running")
	ErrNilSource      = errors.New("code source cannot be nil")
)

// Metrics tracks operational metrics for a Monitor
type Metrics struct {
	PollCycles     int64         // Total number of polling cycles
	CodesReceived  int64         // Codes read from the receiver, repeats included
	CodesPressed   int64         // Codes that started a hold
	CodesChanged   int64         // Codes that replaced a different held code
	CodesReleased  int64         // Holds that timed out
	CallbackErrors int64         // Number of callback errors
	PollInterval   time.Duration // Current adaptive polling interval
}

// Monitor polls a CodeSource and reports codes through callbacks. A code
// seen again before ReleaseTimeout is a repeat of the same press: it does
// not trigger OnCode again.
//
// Callbacks run on the monitor goroutine, except OnCodeReleased which runs
// on the release timer.
type Monitor struct {
	source CodeSource
	config *Config
	clock  clockwork.Clock

	OnCode         func(code um3750.Code) error
	OnCodeChanged  func(code um3750.Code) error
	OnCodeReleased func(last um3750.Code)

	mu    sync.Mutex
	state CodeState

	runMu      sync.Mutex
	cancelFunc context.CancelFunc
	done       chan struct{}
	running    atomic.Bool

	pollCycles      atomic.Int64
	codesReceived   atomic.Int64
	codesPressed    atomic.Int64
	codesChanged    atomic.Int64
	codesReleased   atomic.Int64
	callbackErrors  atomic.Int64
	currentInterval atomic.Int64
	lastCodeAt      atomic.Int64
}

// NewMonitor creates a new code monitor. A nil config uses the defaults.
func NewMonitor(source CodeSource, config *Config) (*Monitor, error) {
	if source == nil {
		return nil, ErrNilSource
	}
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	m := &Monitor{
		source: source,
		config: config,
		clock:  clockwork.NewRealClock(),
	}
	m.currentInterval.Store(int64(config.PollInterval))
	return m, nil
}

// Start runs the monitor in a goroutine until Stop is called or ctx is
// cancelled.
func (m *Monitor) Start(ctx context.Context) error {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	if !m.running.CompareAndSwap(false, true) {
		return ErrMonitorRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	m.done = make(chan struct{})

	go func(done chan struct{}) {
		defer close(done)
		defer m.running.Store(false)
		_ = m.Run(runCtx)
	}(m.done)
	return nil
}

// Stop stops a monitor started with Start and waits for it to exit. The
// held code, if any, is dropped without an OnCodeReleased call.
func (m *Monitor) Stop() {
	m.runMu.Lock()
	cancel, done := m.cancelFunc, m.done
	m.cancelFunc, m.done = nil, nil
	m.runMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// IsRunning reports whether the monitor goroutine is running.
func (m *Monitor) IsRunning() bool {
	return m.running.Load()
}

// Run polls until ctx is cancelled, and returns ctx.Err().
func (m *Monitor) Run(ctx context.Context) error {
	m.lastCodeAt.Store(m.clock.Now().UnixNano())

	ticker := m.clock.NewTicker(m.config.PollInterval)
	defer ticker.Stop()
	defer m.reset()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
		}

		code, err := m.performSinglePoll()
		if err == nil {
			m.processCode(code)
		}

		if interval := m.adjustPollInterval(); interval != time.Duration(m.currentInterval.Swap(int64(interval))) {
			ticker.Reset(interval)
		}
	}
}

// performSinglePoll reads and acknowledges one code.
func (m *Monitor) performSinglePoll() (um3750.Code, error) {
	m.pollCycles.Add(1)

	if !m.source.IsCodeAvailable() {
		return um3750.Code{}, ErrNoCodeInPoll
	}
	code := m.source.ReceivedCode()
	m.source.ResetReceivedCode()

	// the code may have been consumed between the two calls
	if code.IsZero() {
		return um3750.Code{}, ErrNoCodeInPoll
	}
	return code, nil
}

// processCode runs the state machine for one received code.
func (m *Monitor) processCode(code um3750.Code) {
	m.codesReceived.Add(1)
	m.lastCodeAt.Store(m.clock.Now().UnixNano())

	m.mu.Lock()
	wasPresent := m.state.Present
	previous := m.state.LastCode
	m.state.TransitionToHeld(m.clock, code, m.config.ReleaseTimeout, m.handleRelease)
	m.mu.Unlock()

	switch {
	case !wasPresent:
		m.codesPressed.Add(1)
		m.callback(m.OnCode, code)
	case previous.Value != code.Value:
		m.codesChanged.Add(1)
		m.callback(m.OnCodeChanged, code)
	}
}

func (m *Monitor) callback(fn func(um3750.Code) error, code um3750.Code) {
	if fn == nil {
		return
	}
	if err := fn(code); err != nil {
		m.callbackErrors.Add(1)
	}
}

// handleRelease is the release timer callback.
func (m *Monitor) handleRelease(generation uint64) {
	m.mu.Lock()
	if !m.state.Current(generation) || !m.state.Present {
		m.mu.Unlock()
		return
	}
	last := m.state.LastCode
	m.state.TransitionToIdle()
	m.mu.Unlock()

	m.codesReleased.Add(1)
	if m.OnCodeReleased != nil {
		m.OnCodeReleased(last)
	}
}

// reset drops the held code when the monitor exits.
func (m *Monitor) reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.TransitionToIdle()
}

// adjustPollInterval slows polling down after IdleAfter without codes.
func (m *Monitor) adjustPollInterval() time.Duration {
	if m.config.IdleAfter <= 0 {
		return m.config.PollInterval
	}
	since := m.clock.Now().Sub(time.Unix(0, m.lastCodeAt.Load()))
	if since > m.config.IdleAfter {
		return m.config.idleInterval()
	}
	return m.config.PollInterval
}

// GetState returns a copy of the current code state
func (m *Monitor) GetState() CodeState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// GetMetrics returns current operational metrics
func (m *Monitor) GetMetrics() Metrics {
	return Metrics{
		PollCycles:     m.pollCycles.Load(),
		CodesReceived:  m.codesReceived.Load(),
		CodesPressed:   m.codesPressed.Load(),
		CodesChanged:   m.codesChanged.Load(),
		CodesReleased:  m.codesReleased.Load(),
		CallbackErrors: m.callbackErrors.Load(),
		PollInterval:   time.Duration(m.currentInterval.Load()),
	}
}

func (m Metrics) String() string {
	return fmt.Sprintf("polls=%d received=%d pressed=%d changed=%d released=%d callback_errors=%d",
		m.PollCycles, m.CodesReceived, m.CodesPressed, m.CodesChanged, m.CodesReleased, m.CallbackErrors)
}
