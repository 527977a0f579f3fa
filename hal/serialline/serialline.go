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

// Package serialline drives the engine through the modem control lines of a
// serial port: RTS and DTR as outputs, CTS, DSR, DCD and RI as inputs. It
// turns a USB serial adapter into a slow bit-banged radio interface.
package serialline

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
	"periph.io/x/conn/v3/gpio"
)

// Config configures a serial line.
type Config struct {
	// Port is the device path, such as /dev/ttyUSB0 or COM3.
	Port string
	// BaudRate only matters to drivers that refuse to open without one.
	BaudRate int
	// PollInterval is how often inputs are sampled for edges.
	PollInterval time.Duration
}

// DefaultConfig returns the default configuration for port.
func DefaultConfig(port string) *Config {
	return &Config{
		Port:         port,
		BaudRate:     9600,
		PollInterval: 100 * time.Microsecond,
	}
}

// Line is an open serial port used for its control lines.
type Line struct {
	port serial.Port
	name string

	mu   sync.Mutex
	bits *serial.ModemStatusBits
}

// Open opens the port with both outputs low.
func Open(config *Config) (*Line, error) {
	if config == nil {
		return nil, errors.New("nil serial line config")
	}
	mode := &serial.Mode{
		BaudRate:          config.BaudRate,
		DataBits:          8,
		Parity:            serial.NoParity,
		StopBits:          serial.OneStopBit,
		InitialStatusBits: &serial.ModemOutputBits{RTS: false, DTR: false},
	}

	port, err := serial.Open(config.Port, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", config.Port, err)
	}
	return New(port, config.Port), nil
}

// New wraps an already open port.
func New(port serial.Port, name string) *Line {
	return &Line{port: port, name: name, bits: &serial.ModemStatusBits{}}
}

// Name returns the port name.
func (l *Line) Name() string {
	return l.name
}

// Close closes the port.
func (l *Line) Close() error {
	if err := l.port.Close(); err != nil {
		return fmt.Errorf("failed to close serial port %s: %w", l.name, err)
	}
	return nil
}

// RTS returns the Request To Send output.
func (l *Line) RTS() *Output {
	return &Output{name: "RTS", set: l.port.SetRTS}
}

// DTR returns the Data Terminal Ready output.
func (l *Line) DTR() *Output {
	return &Output{name: "DTR", set: l.port.SetDTR}
}

// CTS returns the Clear To Send input.
func (l *Line) CTS() *Input {
	return &Input{line: l, name: "CTS", bit: func(b *serial.ModemStatusBits) bool { return b.CTS }}
}

// DSR returns the Data Set Ready input.
func (l *Line) DSR() *Input {
	return &Input{line: l, name: "DSR", bit: func(b *serial.ModemStatusBits) bool { return b.DSR }}
}

// DCD returns the Data Carrier Detect input.
func (l *Line) DCD() *Input {
	return &Input{line: l, name: "DCD", bit: func(b *serial.ModemStatusBits) bool { return b.DCD }}
}

// RI returns the Ring Indicator input.
func (l *Line) RI() *Input {
	return &Input{line: l, name: "RI", bit: func(b *serial.ModemStatusBits) bool { return b.RI }}
}

// OutputByName returns the output called name (RTS or DTR).
func (l *Line) OutputByName(name string) (*Output, error) {
	switch name {
	case "RTS":
		return l.RTS(), nil
	case "DTR":
		return l.DTR(), nil
	default:
		return nil, fmt.Errorf("%w: output %q", ErrUnknownSignal, name)
	}
}

// InputByName returns the input called name (CTS, DSR, DCD or RI).
func (l *Line) InputByName(name string) (*Input, error) {
	switch name {
	case "CTS":
		return l.CTS(), nil
	case "DSR":
		return l.DSR(), nil
	case "DCD":
		return l.DCD(), nil
	case "RI":
		return l.RI(), nil
	default:
		return nil, fmt.Errorf("%w: input %q", ErrUnknownSignal, name)
	}
}

// status reads the modem status bits. When the read fails the last known
// bits are returned with the error.
func (l *Line) status() (serial.ModemStatusBits, error) {
	bits, err := l.port.GetModemStatusBits()

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		return *l.bits, fmt.Errorf("failed to read modem status of %s: %w", l.name, err)
	}
	l.bits = bits
	return *bits, nil
}

// Output is a modem control output.
type Output struct {
	set  func(bool) error
	name string
}

// Out drives the output.
func (o *Output) Out(level gpio.Level) error {
	if err := o.set(bool(level)); err != nil {
		return fmt.Errorf("failed to set %s: %w", o.name, err)
	}
	return nil
}

// String returns the signal name.
func (o *Output) String() string {
	return o.name
}

// Input is a modem status input.
type Input struct {
	line *Line
	bit  func(*serial.ModemStatusBits) bool
	name string
}

// Read samples the input. A failed read returns the last known level.
func (i *Input) Read() gpio.Level {
	bits, _ := i.line.status()
	return gpio.Level(i.bit(&bits))
}

// String returns the signal name.
func (i *Input) String() string {
	return i.name
}
