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

// Package detection finds hardware an engine can be bound to: GPIO pins and
// serial ports whose modem lines can carry a UM3750 signal. Detectors
// register themselves from their init function; import the subpackages for
// the transports you want.
package detection

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"
)

var (
	// ErrUnsupportedPlatform is returned by a detector that cannot run here.
	ErrUnsupportedPlatform = errors.New("detection not supported on this platform")
	// ErrNoDevicesFound is returned by DetectAll when nothing was found.
	ErrNoDevicesFound = errors.New("no devices found")
)

// DeviceInfo describes one candidate device.
type DeviceInfo struct {
	Metadata  map[string]string
	Transport string
	Path      string
	Name      string
}

func (d DeviceInfo) String() string {
	return fmt.Sprintf("%s:%s (%s)", d.Transport, d.Path, d.Name)
}

// Options controls detection.
type Options struct {
	// Blocklist holds VID:PID pairs of USB devices to skip.
	Blocklist []string
	// IgnorePaths holds device paths to skip.
	IgnorePaths []string
	// Timeout bounds the whole detection.
	Timeout time.Duration
}

// DefaultOptions returns the default detection options.
func DefaultOptions() Options {
	return Options{
		Timeout:   5 * time.Second,
		Blocklist: DefaultBlocklist(),
	}
}

// Detector finds devices of one transport.
type Detector interface {
	Transport() string
	Detect(ctx context.Context, opts *Options) ([]DeviceInfo, error)
}

var (
	detectorsMu sync.RWMutex
	detectors   = make(map[string]Detector)
)

// RegisterDetector makes a detector available to DetectAll. A later
// registration for the same transport replaces the earlier one.
func RegisterDetector(d Detector) {
	detectorsMu.Lock()
	defer detectorsMu.Unlock()
	detectors[d.Transport()] = d
}

// Detectors returns the registered detectors sorted by transport.
func Detectors() []Detector {
	detectorsMu.RLock()
	defer detectorsMu.RUnlock()

	out := make([]Detector, 0, len(detectors))
	for _, d := range detectors {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Transport() < out[j].Transport() })
	return out
}

// DetectAll runs every registered detector. Detectors that do not support
// the platform are skipped; other failures are joined into the error, which
// is returned along with whatever was found.
func DetectAll(ctx context.Context, opts *Options) ([]DeviceInfo, error) {
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	var (
		found []DeviceInfo
		errs  []error
	)
	for _, d := range Detectors() {
		devices, err := d.Detect(ctx, opts)
		switch {
		case errors.Is(err, ErrUnsupportedPlatform):
			continue
		case err != nil:
			errs = append(errs, fmt.Errorf("%s detection failed: %w", d.Transport(), err))
		}
		found = append(found, devices...)
	}

	if err := errors.Join(errs...); err != nil {
		return found, err
	}
	if len(found) == 0 {
		return nil, ErrNoDevicesFound
	}
	return found, nil
}

// DetectTransport runs the detector registered for transport.
func DetectTransport(ctx context.Context, transport string, opts *Options) ([]DeviceInfo, error) {
	detectorsMu.RLock()
	d, ok := detectors[transport]
	detectorsMu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("no detector for transport %q", transport)
	}
	if opts == nil {
		defaults := DefaultOptions()
		opts = &defaults
	}
	return d.Detect(ctx, opts)
}
