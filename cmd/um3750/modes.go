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
	"context"
	"errors"
	"fmt"

	um3750 "github.com/ZaparooProject/go-um3750"
	"github.com/ZaparooProject/go-um3750/detection"
	"github.com/ZaparooProject/go-um3750/polling"
)

// listDevices prints every pin and port the detectors find.
func listDevices(ctx context.Context, output *Output) error {
	opts := detection.DefaultOptions()
	devices, err := detection.DetectAll(ctx, &opts)
	if err != nil && !errors.Is(err, detection.ErrNoDevicesFound) {
		output.Warning("%v", err)
	}
	output.DeviceList(devices)
	return nil
}

// dryRun prints the frame of -code without opening any hardware.
func dryRun(cfg *config, output *Output) error {
	if *cfg.code == "" {
		return errors.New("-dry-run needs -code")
	}
	value, err := parseCode(*cfg.code)
	if err != nil {
		return err
	}

	code := um3750.NewCodeWithDuration(value, *cfg.symbol)
	table := um3750.NewTickTable(code)
	output.Frame(code, &table)

	period := um3750.TimerPeriod(code.SymbolDuration, um3750.DefaultTimerResolution)
	output.Info("timer period %d ticks of %s, %d frames", period, um3750.DefaultTimerResolution, *cfg.repeat)
	return nil
}

// runHardware opens the pins, then receives, transmits or both. With both,
// the receiver is armed first so a loopback wire sees the whole train.
func runHardware(ctx context.Context, cfg *config, output *Output) error {
	hw, err := openHardware(cfg)
	if err != nil {
		return err
	}
	defer hw.Close()

	engine, err := um3750.New(hw.Hardware,
		um3750.WithDefaultRepeat(uint32(*cfg.repeat)),
		um3750.WithDefaultMinConfidence(uint8(*cfg.minConfidence)),
	)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}
	defer func() { output.Verbose("stats: %+v", engine.Stats()) }()

	var monitor *polling.Monitor
	if hw.rx != nil {
		var rx *um3750.Receiver
		monitor, rx, err = startReceive(ctx, engine, hw, output)
		if err != nil {
			return err
		}
		defer func() { _ = rx.Close() }()
		defer monitor.Stop()
	}

	if hw.tx != nil {
		if err := transmit(ctx, cfg, engine, hw, output); err != nil {
			return err
		}
	}

	if monitor == nil {
		return nil
	}
	output.Info("listening on %s, press Ctrl+C to stop", hw.rxName)
	<-ctx.Done()
	output.Verbose("monitor: %s", monitor.GetMetrics())
	return ctx.Err()
}

func transmit(ctx context.Context, cfg *config, engine *um3750.Engine, hw *hardware, output *Output) error {
	value, err := parseCode(*cfg.code)
	if err != nil {
		return err
	}
	code := um3750.NewCodeWithDuration(value, *cfg.symbol)

	enc, err := engine.NewEncoder()
	if err != nil {
		return err
	}
	if err := enc.EnableTransmit(hw.tx); err != nil {
		return err
	}
	defer enc.DisableTransmit()

	output.Info("transmitting %s on %s, %d frames", code, hw.txName, *cfg.repeat)
	if err := enc.TransmitCode(ctx, code); err != nil {
		return err
	}
	if err := enc.Wait(ctx); err != nil {
		return fmt.Errorf("transmit interrupted: %w", err)
	}
	output.OK("sent %s", code)
	return nil
}

func startReceive(
	ctx context.Context, engine *um3750.Engine, hw *hardware, output *Output,
) (*polling.Monitor, *um3750.Receiver, error) {
	rx, err := engine.EnableReceive(hw.rx)
	if err != nil {
		return nil, nil, err
	}

	monitor, err := polling.NewMonitor(rx, nil)
	if err != nil {
		_ = rx.Close()
		return nil, nil, err
	}
	monitor.OnCode = func(code um3750.Code) error {
		output.CodeReceived(hw.rxName, code)
		return nil
	}
	monitor.OnCodeChanged = func(code um3750.Code) error {
		output.CodeChanged(hw.rxName, code)
		return nil
	}
	monitor.OnCodeReleased = func(code um3750.Code) {
		output.CodeReleased(hw.rxName, code)
	}

	if err := monitor.Start(ctx); err != nil {
		_ = rx.Close()
		return nil, nil, err
	}
	return monitor, rx, nil
}
