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
	"errors"
	"fmt"
)

// Engine errors
var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrPoolExhausted = errors.New("receive channel pool exhausted")
	ErrChannelClosed = errors.New("receive channel closed")
)

// ErrTransmitDisabled is returned when an encoder without a bound output pin
// is asked to transmit. It is a kind of ErrInvalidConfig.
var ErrTransmitDisabled = fmt.Errorf("%w: transmit not enabled", ErrInvalidConfig)

// HardwareError wraps a failure reported by one of the hardware collaborators.
type HardwareError struct {
	Err error
	Op  string
}

func (e *HardwareError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *HardwareError) Unwrap() error {
	return e.Err
}

// NewHardwareError wraps err as a failure of operation op.
func NewHardwareError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &HardwareError{Op: op, Err: err}
}

// invalidConfig returns ErrInvalidConfig annotated with a reason.
func invalidConfig(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
