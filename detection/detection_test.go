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

package detection

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsBlocked(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		vidpid    string
		blocklist []string
		expected  bool
	}{
		{name: "exact", vidpid: "1366:0105", blocklist: []string{"1366:0105"}, expected: true},
		{name: "case", vidpid: "0d28:0204", blocklist: []string{"0D28:0204"}, expected: true},
		{name: "spaces", vidpid: " 0403:6001 ", blocklist: []string{"0403:6001 "}, expected: true},
		{name: "not listed", vidpid: "0403:6001", blocklist: []string{"1366:0105"}},
		{name: "empty", vidpid: "", blocklist: []string{""}},
		{name: "no list", vidpid: "0403:6001"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, IsBlocked(tt.vidpid, tt.blocklist))
		})
	}
}

func TestParseVIDPID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		descriptor string
		expected   string
	}{
		{descriptor: "VID:0403 PID:6001", expected: "0403:6001"},
		{descriptor: "vendor=1a86 product=7523", expected: "1A86:7523"},
		{descriptor: "USB\\VID=10C4&PID=EA60", expected: "10C4:EA60"},
		{descriptor: "067b:2303", expected: "067B:2303"},
		{descriptor: "no ids here", expected: ""},
		{descriptor: "VID:0403 only", expected: ""},
		{descriptor: "xyz:2303", expected: ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.descriptor, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, ParseVIDPID(tt.descriptor))
		})
	}
}

func TestFormatVIDPID(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "0403:6001", FormatVIDPID("0403", "6001"))
	assert.Equal(t, "1A86:7523", FormatVIDPID("1a86", " 7523"))
	assert.Empty(t, FormatVIDPID("", "6001"))
	assert.Empty(t, FormatVIDPID("0403", "zz"))
}

type stubDetector struct {
	err       error
	transport string
	devices   []DeviceInfo
}

func (d *stubDetector) Transport() string { return d.transport }

func (d *stubDetector) Detect(context.Context, *Options) ([]DeviceInfo, error) {
	return d.devices, d.err
}

// The registry is process wide, so these run in sequence.
func TestDetectAll(t *testing.T) {
	saved := Detectors()
	t.Cleanup(func() {
		detectorsMu.Lock()
		detectors = make(map[string]Detector)
		detectorsMu.Unlock()
		for _, d := range saved {
			RegisterDetector(d)
		}
	})
	reset := func() {
		detectorsMu.Lock()
		detectors = make(map[string]Detector)
		detectorsMu.Unlock()
	}

	t.Run("Nothing_Registered", func(t *testing.T) {
		reset()
		_, err := DetectAll(context.Background(), nil)
		assert.ErrorIs(t, err, ErrNoDevicesFound)
	})

	t.Run("Unsupported_Is_Skipped", func(t *testing.T) {
		reset()
		RegisterDetector(&stubDetector{transport: "gpio", err: ErrUnsupportedPlatform})
		RegisterDetector(&stubDetector{transport: "serial", devices: []DeviceInfo{{Transport: "serial", Path: "/dev/ttyUSB0"}}})

		devices, err := DetectAll(context.Background(), nil)
		require.NoError(t, err)
		require.Len(t, devices, 1)
		assert.Equal(t, "serial:/dev/ttyUSB0 ()", devices[0].String())
	})

	t.Run("Failures_Are_Joined", func(t *testing.T) {
		reset()
		boom := errors.New("enumeration failed")
		RegisterDetector(&stubDetector{transport: "serial", err: boom})
		RegisterDetector(&stubDetector{transport: "gpio", devices: []DeviceInfo{{Transport: "gpio", Path: "GPIO17"}}})

		devices, err := DetectAll(context.Background(), nil)
		require.ErrorIs(t, err, boom)
		assert.Len(t, devices, 1)
	})

	t.Run("Single_Transport", func(t *testing.T) {
		reset()
		RegisterDetector(&stubDetector{transport: "gpio", devices: []DeviceInfo{{Path: "GPIO4"}}})

		devices, err := DetectTransport(context.Background(), "gpio", nil)
		require.NoError(t, err)
		assert.Len(t, devices, 1)

		_, err = DetectTransport(context.Background(), "spi", nil)
		assert.Error(t, err)
	})

	t.Run("Sorted", func(t *testing.T) {
		reset()
		RegisterDetector(&stubDetector{transport: "serial"})
		RegisterDetector(&stubDetector{transport: "gpio"})
		ds := Detectors()
		require.Len(t, ds, 2)
		assert.Equal(t, "gpio", ds[0].Transport())
	})
}
