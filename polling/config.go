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

// Package polling watches a receive channel from the application side. A
// Monitor polls it, turns codes into press, change and release callbacks,
// and acknowledges every code so the next one can be decoded.
package polling

import (
	"errors"
	"time"
)

// Config contains configuration options for a Monitor
type Config struct {
	// PollInterval is how often the receiver is polled while codes arrive.
	PollInterval time.Duration
	// IdleInterval is the slower rate used after IdleAfter without codes.
	IdleInterval time.Duration
	// IdleAfter is how long without codes before polling slows down.
	IdleAfter time.Duration
	// ReleaseTimeout is how long a code may go unseen before it is
	// considered released. A transmitter repeating a code keeps it held.
	ReleaseTimeout time.Duration
}

// DefaultConfig returns default monitor configuration
func DefaultConfig() *Config {
	return &Config{
		PollInterval:   10 * time.Millisecond,
		IdleInterval:   50 * time.Millisecond,
		IdleAfter:      5 * time.Second,
		ReleaseTimeout: 250 * time.Millisecond,
	}
}

// ErrInvalidConfig is returned for a configuration with a zero interval.
var ErrInvalidConfig = errors.New("invalid monitor config")

func (c *Config) validate() error {
	if c.PollInterval <= 0 || c.ReleaseTimeout <= 0 {
		return ErrInvalidConfig
	}
	return nil
}

// idleInterval returns the slow polling rate, never faster than PollInterval.
func (c *Config) idleInterval() time.Duration {
	if c.IdleInterval < c.PollInterval {
		return c.PollInterval
	}
	return c.IdleInterval
}
