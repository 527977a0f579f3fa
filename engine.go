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

// EngineConfig contains configuration options for an Engine
type EngineConfig struct {
	// ChannelCapacity is the number of receive channels in the pool
	ChannelCapacity int
	// DefaultRepeat is the frame count used by Encoder.TransmitCode
	DefaultRepeat uint32
	// DefaultMinConfidence is the threshold used by EnableReceive
	DefaultMinConfidence uint8
}

// DefaultEngineConfig returns default engine configuration
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		ChannelCapacity:      3,
		DefaultRepeat:        DefaultRepeat,
		DefaultMinConfidence: DefaultMinConfidence,
	}
}

// Engine owns the state shared by every encoder and receiver on one set of
// hardware: the transmit scheduler bound to the periodic timer, and the
// pool of receive channels.
//
// Encoders and receivers are handles into the engine. Their methods are safe
// for concurrent use; transmissions from different encoders are serialised.
type Engine struct {
	hw        Hardware
	config    *EngineConfig
	scheduler *Scheduler
	registry  *Registry
	stats     statsCounters
}

// New creates an Engine driving hw.
func New(hw Hardware, opts ...Option) (*Engine, error) {
	e := &Engine{
		hw:     hw,
		config: DefaultEngineConfig(),
	}

	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	if e.config.ChannelCapacity < 1 {
		return nil, invalidConfig("channel capacity %d", e.config.ChannelCapacity)
	}
	if e.config.DefaultRepeat == 0 || e.config.DefaultMinConfidence == 0 {
		return nil, invalidConfig("default repeat and minimum confidence must be non-zero")
	}

	if hw.Timer != nil {
		e.scheduler = newScheduler(hw.Timer, &e.stats)
	}
	e.registry = newRegistry(e.config.ChannelCapacity, hw.Edges, hw.Clock, &e.stats)

	debugf("engine ready: %d receive channels, transmit %t", e.config.ChannelCapacity, e.scheduler != nil)
	return e, nil
}

// NewEncoder returns an encoder using the engine's timer. The engine must
// have been built with a Timer.
func (e *Engine) NewEncoder() (*Encoder, error) {
	if e.scheduler == nil {
		return nil, invalidConfig("transmitting needs a timer")
	}
	return &Encoder{scheduler: e.scheduler, repeat: e.config.DefaultRepeat}, nil
}

// EnableReceive allocates a receive channel on pin with the default minimum
// confidence.
func (e *Engine) EnableReceive(pin InputPin) (*Receiver, error) {
	return e.registry.Allocate(pin, e.config.DefaultMinConfidence)
}

// EnableReceiveWithConfidence allocates a receive channel on pin that
// reports a code after minConfidence identical frames.
func (e *Engine) EnableReceiveWithConfidence(pin InputPin, minConfidence uint8) (*Receiver, error) {
	return e.registry.Allocate(pin, minConfidence)
}

// Scheduler returns the transmit scheduler, or nil without a timer.
func (e *Engine) Scheduler() *Scheduler {
	return e.scheduler
}

// Registry returns the receive channel pool.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() EngineConfig {
	return *e.config
}

// Stats returns a snapshot of the engine counters.
func (e *Engine) Stats() Stats {
	return e.stats.snapshot()
}
