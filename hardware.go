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

package um3750

import "github.com/ZaparooProject/go-um3750/hal"

// Hardware contracts, see package hal.
type (
	OutputPin  = hal.OutputPin
	InputPin   = hal.InputPin
	Timer      = hal.Timer
	EdgeSource = hal.EdgeSource
	Clock      = hal.Clock
)

// Hardware groups the collaborators an Engine drives. Timer is only needed
// for transmitting; Edges and Clock only for receiving.
type Hardware struct {
	Timer Timer
	Edges EdgeSource
	Clock Clock
}
