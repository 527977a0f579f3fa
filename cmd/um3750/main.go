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

// Command um3750 sends and receives UM3750 remote control codes on GPIO
// pins or on the modem lines of a serial port.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	um3750 "github.com/ZaparooProject/go-um3750"

	// Import detection packages to register detectors
	_ "github.com/ZaparooProject/go-um3750/detection/gpio"
	_ "github.com/ZaparooProject/go-um3750/detection/serial"
)

type config struct {
	txPin         *string
	rxPin         *string
	serialPort    *string
	code          *string
	repeat        *uint
	symbol        *time.Duration
	minConfidence *uint
	pollInterval  *time.Duration
	list          *bool
	dryRun        *bool
	debug         *bool
	verbose       *bool
}

func parseFlags(fs *flag.FlagSet, args []string) (*config, error) {
	cfg := &config{
		list:   fs.Bool("list", false, "List GPIO pins and serial ports and exit"),
		txPin:  fs.String("tx", "", "Transmit pin: a GPIO name, or RTS/DTR with -serial"),
		rxPin:  fs.String("rx", "", "Receive pin: a GPIO name, or CTS/DSR/DCD/RI with -serial"),
		serialPort: fs.String("serial", "",
			"Use the modem lines of this serial port (e.g., /dev/ttyUSB0 or COM3) instead of GPIO"),
		code:   fs.String("code", "", "Code to transmit, 0 to 0xFFF (0x and 0b prefixes accepted)"),
		repeat: fs.Uint("repeat", um3750.DefaultRepeat, "Number of frames to transmit"),
		symbol: fs.Duration("symbol", um3750.DefaultSymbolDuration, "Symbol duration"),
		minConfidence: fs.Uint("min-confidence", um3750.DefaultMinConfidence,
			"Identical frames needed before a received code is reported"),
		pollInterval: fs.Duration("poll", 100*time.Microsecond, "Modem line sampling interval with -serial"),
		dryRun:       fs.Bool("dry-run", false, "Print the frame for -code and exit without touching hardware"),
		debug:        fs.Bool("debug", false, "Enable debug output"),
		verbose:      fs.Bool("verbose", false, "Enable verbose output"),
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return cfg, cfg.validate()
}

func (c *config) validate() error {
	if *c.minConfidence == 0 || *c.minConfidence > 255 {
		return fmt.Errorf("-min-confidence must be between 1 and 255, got %d", *c.minConfidence)
	}
	if *c.repeat == 0 || *c.repeat > math.MaxUint32 {
		return fmt.Errorf("-repeat must be between 1 and %d, got %d", uint32(math.MaxUint32), *c.repeat)
	}
	if *c.symbol <= 0 {
		return errors.New("-symbol must be positive")
	}
	if *c.list || *c.dryRun {
		return nil
	}
	if *c.txPin == "" && *c.rxPin == "" {
		return errors.New("nothing to do: set -tx, -rx, -list or -dry-run")
	}
	if *c.txPin != "" && *c.code == "" {
		return errors.New("-tx needs -code")
	}
	return nil
}

// parseCode parses a 12 bit code in any base strconv understands.
func parseCode(s string) (uint16, error) {
	v, err := strconv.ParseUint(s, 0, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid code %q: %w", s, err)
	}
	if v > um3750.MaxValue {
		return 0, fmt.Errorf("invalid code %q: larger than 0x%X", s, um3750.MaxValue)
	}
	return uint16(v), nil
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout))
}

// run returns the process exit code: 0 on success, 1 when the command
// fails and 2 for bad flags.
func run(args []string, stdout io.Writer) int {
	fs := flag.NewFlagSet("um3750", flag.ContinueOnError)
	cfg, err := parseFlags(fs, args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	output := NewOutput(stdout, cfg != nil && *cfg.verbose)
	if err != nil {
		output.Error("%v", err)
		return 2
	}

	if *cfg.debug {
		um3750.SetDebugEnabled(true)
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			_, _ = fmt.Fprint(stdout, "\nShutting down gracefully...\n")
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := dispatch(ctx, cfg, output); err != nil && !errors.Is(err, context.Canceled) {
		output.Error("%v", err)
		return 1
	}
	return 0
}

func dispatch(ctx context.Context, cfg *config, output *Output) error {
	switch {
	case *cfg.list:
		return listDevices(ctx, output)
	case *cfg.dryRun:
		return dryRun(cfg, output)
	default:
		return runHardware(ctx, cfg, output)
	}
}
