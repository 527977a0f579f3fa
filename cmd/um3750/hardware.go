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
	"errors"
	"fmt"

	um3750 "github.com/ZaparooProject/go-um3750"
	"github.com/ZaparooProject/go-um3750/hal/clock"
	"github.com/ZaparooProject/go-um3750/hal/periph"
	"github.com/ZaparooProject/go-um3750/hal/serialline"
	"periph.io/x/conn/v3/gpio"
)

// hardware is the opened backend with its pins.
type hardware struct {
	um3750.Hardware
	tx      um3750.OutputPin
	rx      um3750.InputPin
	txName  string
	rxName  string
	closers []func() error
}

// Close releases the backend.
func (h *hardware) Close() {
	for i := len(h.closers) - 1; i >= 0; i-- {
		_ = h.closers[i]()
	}
}

func openHardware(cfg *config) (*hardware, error) {
	hw := &hardware{
		Hardware: um3750.Hardware{
			Timer: clock.NewTimer(um3750.DefaultTimerResolution),
			Clock: clock.NewMonotonic(),
		},
		txName: *cfg.txPin,
		rxName: *cfg.rxPin,
	}
	hw.closers = append(hw.closers, func() error {
		hw.Timer.Disable()
		return nil
	})

	var err error
	if *cfg.serialPort != "" {
		err = openSerial(cfg, hw)
	} else {
		err = openGPIO(cfg, hw)
	}
	if err != nil {
		hw.Close()
		return nil, err
	}
	return hw, nil
}

func openGPIO(cfg *config, hw *hardware) error {
	if err := periph.Init(); err != nil {
		return err
	}

	edges := periph.NewEdgeSource(nil)
	hw.Edges = edges
	hw.closers = append(hw.closers, edges.Close)

	if *cfg.txPin != "" {
		pin, err := periph.OpenOutput(*cfg.txPin)
		if err != nil {
			return err
		}
		hw.tx = pin
		hw.closers = append(hw.closers, func() error { return pin.Out(gpio.Low) })
	}
	if *cfg.rxPin != "" {
		pin, err := periph.OpenInput(*cfg.rxPin, gpio.PullDown)
		if err != nil {
			return err
		}
		hw.rx = pin
	}
	return nil
}

func openSerial(cfg *config, hw *hardware) error {
	lineCfg := serialline.DefaultConfig(*cfg.serialPort)
	lineCfg.PollInterval = *cfg.pollInterval

	line, err := serialline.Open(lineCfg)
	if err != nil {
		return err
	}
	hw.closers = append(hw.closers, line.Close)
	hw.Edges = serialline.NewEdgeSource(lineCfg.PollInterval)

	if *cfg.txPin != "" {
		out, err := line.OutputByName(*cfg.txPin)
		if err != nil {
			return err
		}
		if err := out.Out(gpio.Low); err != nil {
			return err
		}
		hw.tx = out
		hw.txName = fmt.Sprintf("%s %s", line.Name(), out)
	}
	if *cfg.rxPin != "" {
		in, err := line.InputByName(*cfg.rxPin)
		if err != nil {
			return err
		}
		hw.rx = in
		hw.rxName = fmt.Sprintf("%s %s", line.Name(), in)
	}
	if hw.tx == nil && hw.rx == nil {
		return errors.New("-serial needs -tx or -rx")
	}
	return nil
}
