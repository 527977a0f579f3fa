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

/*
Package um3750 emulates the UM3750 fixed-code remote control encoder and
decoder in software.

The UM3750 sends a 12 bit code as a train of pulse-width encoded symbols,
typically over a 315/433 MHz ASK radio module. Every symbol lasts 96
oscillator cycles (960 µs at 100 kHz) and is split in three equal phases:
low, the data bit, high. A frame is a sync symbol, the 12 data symbols and
11 symbols of silence.

Features:
  - Transmit driven by a periodic timer, one level written per phase
  - Several encoders sharing one timer, transmissions never interleaved
  - Receive on up to three pins (configurable) from edge interrupts
  - Noise rejection on symbol period and pulse ratios
  - Debounced reception: a code is reported after N identical frames
  - Hardware backends on periph.io GPIO and serial port modem lines

Basic Usage:

	import (
	    "github.com/ZaparooProject/go-um3750"
	    "github.com/ZaparooProject/go-um3750/hal/clock"
	    "github.com/ZaparooProject/go-um3750/hal/periph"
	)

	if err := periph.Init(); err != nil {
	    log.Fatal(err)
	}
	tx, err := periph.OpenOutput("GPIO17")
	if err != nil {
	    log.Fatal(err)
	}
	rx, err := periph.OpenInput("GPIO27", gpio.PullDown)
	if err != nil {
	    log.Fatal(err)
	}

	engine, err := um3750.New(um3750.Hardware{
	    Timer: clock.NewTimer(um3750.DefaultTimerResolution),
	    Edges: periph.NewEdgeSource(nil),
	    Clock: clock.NewMonotonic(),
	})
	if err != nil {
	    log.Fatal(err)
	}

	// Transmit
	enc, _ := engine.NewEncoder()
	if err := enc.EnableTransmit(tx); err != nil {
	    log.Fatal(err)
	}
	defer enc.DisableTransmit()
	if err := enc.TransmitCode(ctx, um3750.NewCode(0xB32)); err != nil {
	    log.Fatal(err)
	}

	// Receive
	recv, err := engine.EnableReceive(rx)
	if err != nil {
	    log.Fatal(err)
	}
	defer recv.Close()
	for !recv.IsCodeAvailable() {
	    time.Sleep(10 * time.Millisecond)
	}
	fmt.Println(recv.ReceivedCode())
	recv.ResetReceivedCode()

The polling package wraps the receive loop in a Monitor with callbacks.

Error Handling:

Misuse is reported, never ignored:

	if errors.Is(err, um3750.ErrInvalidConfig) {
	    // zero repeat count, no output pin, ...
	}
	if errors.Is(err, um3750.ErrPoolExhausted) {
	    // every receive channel is taken
	}

Frames that fail validation are noise and are dropped without an error.

Thread Safety:

Tick and edge callbacks run on the timer and edge source goroutines. They
never block on the caller, never allocate and never log. Encoder, Receiver
and Engine methods may be used from any goroutine.
*/
package um3750
