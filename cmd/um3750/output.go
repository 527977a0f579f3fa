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

package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	um3750 "github.com/ZaparooProject/go-um3750"
	"github.com/ZaparooProject/go-um3750/detection"
	"periph.io/x/conn/v3/gpio"
)

// Output handles consistent formatting of messages
type Output struct {
	w       io.Writer
	verbose bool
}

// NewOutput creates a new output handler
func NewOutput(w io.Writer, verbose bool) *Output {
	return &Output{w: w, verbose: verbose}
}

func (o *Output) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(o.w, format, args...)
}

// DeviceList prints detected pins and ports grouped by transport
func (o *Output) DeviceList(devices []detection.DeviceInfo) {
	if len(devices) == 0 {
		o.printf("No GPIO pins or serial ports found\n")
		return
	}
	last := ""
	for _, d := range devices {
		if d.Transport != last {
			o.printf("%s:\n", strings.ToUpper(d.Transport))
			last = d.Transport
		}
		o.printf("  %-24s %s\n", d.Path, d.Name)
		if o.verbose {
			for k, v := range d.Metadata {
				o.printf("      %s=%s\n", k, v)
			}
		}
	}
}

// Frame prints a frame as its tick levels and as pulses
func (o *Output) Frame(code um3750.Code, table *um3750.TickTable) {
	o.printf("Code %s (%012b)\n", code, code.Value&um3750.MaxValue)

	var ticks strings.Builder
	for i, level := range table {
		if i > 0 && i%3 == 0 {
			ticks.WriteByte(' ')
		}
		if level == gpio.High {
			ticks.WriteByte('1')
		} else {
			ticks.WriteByte('0')
		}
	}
	o.printf("Ticks: %s\n", ticks.String())

	pulses := table.Pulses(code.SymbolDuration)
	o.printf("Pulses (%d):\n", len(pulses))
	var total time.Duration
	for _, p := range pulses {
		o.printf("  %-4s %s\n", p.Level, p.Duration)
		total += p.Duration
	}
	o.printf("Frame length: %s\n", total)
}

// CodeReceived prints a newly pressed code
func (o *Output) CodeReceived(rx string, code um3750.Code) {
	o.printf("\nCODE: %s received on %s\n", code, rx)
}

// CodeChanged prints a code replacing the held one
func (o *Output) CodeChanged(rx string, code um3750.Code) {
	o.printf("\nCODE: %s received on %s (changed)\n", code, rx)
}

// CodeReleased prints a code that stopped repeating
func (o *Output) CodeReleased(rx string, code um3750.Code) {
	o.Verbose("CODE: %03X released on %s", code.Value, rx)
}

// Error prints an error message
func (o *Output) Error(format string, args ...any) {
	o.printf("ERROR: "+format+"\n", args...)
}

// Warning prints a warning message
func (o *Output) Warning(format string, args ...any) {
	o.printf("WARNING: "+format+"\n", args...)
}

// Info prints an info message
func (o *Output) Info(format string, args ...any) {
	o.printf("INFO: "+format+"\n", args...)
}

// OK prints a success message
func (o *Output) OK(format string, args ...any) {
	o.printf("OK: "+format+"\n", args...)
}

// Verbose prints only if verbose mode is enabled
func (o *Output) Verbose(format string, args ...any) {
	if o.verbose {
		o.printf(format+"\n", args...)
	}
}
