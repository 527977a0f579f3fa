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

// Option is a functional option for configuring an Engine
type Option func(*Engine) error

// WithChannelCapacity sets the number of receive channels in the pool
func WithChannelCapacity(n int) Option {
	return func(e *Engine) error {
		if n < 1 {
			return invalidConfig("channel capacity %d", n)
		}
		e.config.ChannelCapacity = n
		return nil
	}
}

// WithDefaultRepeat sets how many frames Encoder.TransmitCode sends
func WithDefaultRepeat(n uint32) Option {
	return func(e *Engine) error {
		if n == 0 {
			return invalidConfig("default repeat count is zero")
		}
		e.config.DefaultRepeat = n
		return nil
	}
}

// WithDefaultMinConfidence sets the threshold used by Engine.EnableReceive
func WithDefaultMinConfidence(n uint8) Option {
	return func(e *Engine) error {
		if n == 0 {
			return invalidConfig("default minimum confidence is zero")
		}
		e.config.DefaultMinConfidence = n
		return nil
	}
}

// WithConfig replaces the whole engine configuration
func WithConfig(config *EngineConfig) Option {
	return func(e *Engine) error {
		if config == nil {
			return invalidConfig("nil engine config")
		}
		c := *config
		e.config = &c
		return nil
	}
}
