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

// Package serial detects serial ports whose modem lines can drive a radio
// module. Importing it registers the detector.
package serial

import (
	"context"
	"fmt"

	"github.com/ZaparooProject/go-um3750/detection"
	"go.bug.st/serial/enumerator"
)

// detector implements the Detector interface for serial ports
type detector struct {
	list func() ([]*enumerator.PortDetails, error)
}

// New creates a new serial port detector
func New() detection.Detector {
	return &detector{list: enumerator.GetDetailedPortsList}
}

func init() {
	detection.RegisterDetector(New())
}

// Transport returns the transport type
func (*detector) Transport() string {
	return "serial"
}

// Detect lists the serial ports that are neither ignored nor blocked.
func (d *detector) Detect(ctx context.Context, opts *detection.Options) ([]detection.DeviceInfo, error) {
	ports, err := d.list()
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate serial ports: %w", err)
	}

	devices := make([]detection.DeviceInfo, 0, len(ports))
	for _, port := range ports {
		if err := ctx.Err(); err != nil {
			return devices, err
		}

		vidpid := ""
		if port.IsUSB {
			vidpid = detection.FormatVIDPID(port.VID, port.PID)
		}
		if opts.Skip(port.Name, vidpid) {
			continue
		}
		devices = append(devices, deviceInfo(port, vidpid))
	}
	return devices, nil
}

func deviceInfo(port *enumerator.PortDetails, vidpid string) detection.DeviceInfo {
	info := detection.DeviceInfo{
		Transport: "serial",
		Path:      port.Name,
		Name:      port.Name,
		Metadata:  map[string]string{},
	}
	if port.Product != "" {
		info.Name = port.Product
		info.Metadata["product"] = port.Product
	}
	if vidpid != "" {
		info.Metadata["vidpid"] = vidpid
	}
	if port.SerialNumber != "" {
		info.Metadata["serial"] = port.SerialNumber
	}
	return info
}
