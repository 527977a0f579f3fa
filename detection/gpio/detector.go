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

// Package gpio detects the GPIO pins registered with periph.io. Importing
// it registers the detector.
package gpio

import (
	"context"
	"strconv"

	"github.com/ZaparooProject/go-um3750/detection"
	"github.com/ZaparooProject/go-um3750/hal/periph"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
)

// detector implements the Detector interface for GPIO pins
type detector struct {
	init func() error
	list func() []gpio.PinIO
}

// New creates a new GPIO detector
func New() detection.Detector {
	return &detector{init: periph.Init, list: gpioreg.All}
}

func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return "gpio"
}

// Detect lists every registered pin that is not ignored. Platforms without
// GPIO drivers report ErrUnsupportedPlatform.
func (d *detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	if err := d.init(); err != nil {
		return nil, err
	}

	pins := d.list()
	if len(pins) == 0 {
		return nil, detection.ErrUnsupportedPlatform
	}

	devices := make([]detection.DeviceInfo, 0, len(pins))
	for _, pin := range pins {
		if err := ctx.Err(); err != nil {
			return devices, err
		}
		if opts.Skip(pin.Name(), "") {
			continue
		}
		devices = append(devices, detection.DeviceInfo{
			Transport: "gpio",
			Path:      pin.Name(),
			Name:      pin.String(),
			Metadata: map[string]string{
				"number":   strconv.Itoa(pin.Number()),
				"function": pin.Function(),
			},
		})
	}
	return devices, nil
}
