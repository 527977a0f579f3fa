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

import (
	"context"
	"sync"
	"testing"
	"time"

	testutil "github.com/ZaparooProject/go-um3750/internal/testing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loopback wires an encoder's output straight into a receive channel.
func loopback(t *testing.T, rig *testRig, minConfidence uint8) (*Encoder, *Receiver) {
	t.Helper()

	line := testutil.NewLine(rig.bus)
	enc, err := rig.engine.NewEncoder()
	require.NoError(t, err)
	require.NoError(t, enc.EnableTransmit(line))

	rx, err := rig.engine.EnableReceiveWithConfidence(line, minConfidence)
	require.NoError(t, err)
	return enc, rx
}

func TestEngine_Loopback(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t)
	enc, rx := loopback(t, rig, 3)

	require.NoError(t, enc.TransmitCodeTimes(context.Background(), NewCode(0xB32), 5))
	assert.Equal(t, 5*TickTableLength, rig.timer.RunUntilDisabled(10_000))

	require.True(t, rx.IsCodeAvailable())
	assert.Equal(t, uint32(3), rx.Confidence())
	assert.Equal(t, NewCode(0xB32), rx.ReceivedCode())

	// the first sync edge finds an empty ring, and the last frame is never
	// followed by a sync edge; the fifth sync edge finds the code held
	stats := rig.engine.Stats()
	assert.Equal(t, uint64(3), stats.FramesAccepted)
	assert.Equal(t, uint64(1), stats.FramesRejected)
	assert.Equal(t, uint64(1), stats.CodesChanged)
	assert.Equal(t, uint64(5*26), stats.EdgesSampled)
	assert.Equal(t, uint64(5*TickTableLength), stats.TicksEmitted)
	assert.Equal(t, uint64(5), stats.FramesTransmitted)
}

func TestEngine_LoopbackEveryDuration(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		symbol time.Duration
	}{
		{name: "Default", symbol: DefaultSymbolDuration},
		{name: "Slow_Oscillator", symbol: 1920 * time.Microsecond},
		{name: "Fast_Oscillator", symbol: 480 * time.Microsecond},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rig := newTestRig(t)
			enc, rx := loopback(t, rig, 2)
			code := NewCodeWithDuration(0x5A5, tt.symbol)

			require.NoError(t, enc.TransmitCodeTimes(context.Background(), code, 3))
			rig.timer.RunUntilDisabled(10_000)

			require.True(t, rx.IsCodeAvailable())
			assert.Equal(t, code, rx.ReceivedCode())
		})
	}
}

func TestEngine_ResetThenRetransmit(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t)
	enc, rx := loopback(t, rig, 3)
	ctx := context.Background()

	require.NoError(t, enc.TransmitCodeTimes(ctx, NewCode(0x111), 4))
	rig.timer.RunUntilDisabled(10_000)
	require.True(t, rx.IsCodeAvailable())

	rx.ResetReceivedCode()
	assert.False(t, rx.IsCodeAvailable())

	// the undecoded last frame of the previous train counts towards the
	// next code once a sync edge follows it
	require.NoError(t, enc.TransmitCodeTimes(ctx, NewCode(0x222), 3))
	rig.timer.RunUntilDisabled(10_000)
	require.False(t, rx.IsCodeAvailable())
	assert.Equal(t, uint32(2), rx.Confidence())

	require.NoError(t, enc.TransmitCodeTimes(ctx, NewCode(0x222), 1))
	rig.timer.RunUntilDisabled(10_000)
	require.True(t, rx.IsCodeAvailable())
	assert.Equal(t, uint16(0x222), rx.ReceivedCode().Value)
	assert.Equal(t, uint64(2), rig.engine.Stats().CodesChanged)
}

func TestEngine_ConcurrentQueries(t *testing.T) {
	t.Parallel()

	rig := newTestRig(t)
	enc, rx := loopback(t, rig, 2)

	require.NoError(t, enc.TransmitCodeTimes(context.Background(), NewCode(0xC0D), 20))

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				if rx.IsCodeAvailable() {
					code := rx.ReceivedCode()
					if !code.IsZero() {
						assert.Equal(t, uint16(0xC0D), code.Value)
					}
				}
				_ = rx.Confidence()
				_ = rig.engine.Stats()
			}
		}()
	}

	rig.timer.RunUntilDisabled(100_000)
	close(stop)
	wg.Wait()

	require.True(t, rx.IsCodeAvailable())
	assert.Equal(t, uint16(0xC0D), rx.ReceivedCode().Value)
}

func TestNew_Options(t *testing.T) {
	t.Parallel()

	hw := Hardware{
		Timer: testutil.NewManualTimer(DefaultTimerResolution, nil),
		Edges: testutil.NewEdgeBus(),
		Clock: &testutil.FakeClock{},
	}

	t.Run("Defaults", func(t *testing.T) {
		t.Parallel()
		engine, err := New(hw)
		require.NoError(t, err)
		assert.Equal(t, *DefaultEngineConfig(), engine.Config())
		assert.Equal(t, 3, engine.Registry().Capacity())
	})

	t.Run("Applied", func(t *testing.T) {
		t.Parallel()
		engine, err := New(hw, WithChannelCapacity(8), WithDefaultRepeat(10), WithDefaultMinConfidence(5))
		require.NoError(t, err)
		assert.Equal(t, EngineConfig{ChannelCapacity: 8, DefaultRepeat: 10, DefaultMinConfidence: 5}, engine.Config())
	})

	t.Run("Whole_Config", func(t *testing.T) {
		t.Parallel()
		cfg := &EngineConfig{ChannelCapacity: 2, DefaultRepeat: 1, DefaultMinConfidence: 1}
		engine, err := New(hw, WithConfig(cfg))
		require.NoError(t, err)
		cfg.ChannelCapacity = 99
		assert.Equal(t, 2, engine.Config().ChannelCapacity)
	})

	invalid := []struct {
		name string
		opt  Option
	}{
		{name: "Zero_Capacity", opt: WithChannelCapacity(0)},
		{name: "Zero_Repeat", opt: WithDefaultRepeat(0)},
		{name: "Zero_Confidence", opt: WithDefaultMinConfidence(0)},
		{name: "Nil_Config", opt: WithConfig(nil)},
		{name: "Config_Without_Capacity", opt: WithConfig(&EngineConfig{DefaultRepeat: 1, DefaultMinConfidence: 1})},
		{name: "Config_Without_Repeat", opt: WithConfig(&EngineConfig{ChannelCapacity: 1, DefaultMinConfidence: 1})},
	}
	for _, tt := range invalid {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(hw, tt.opt)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}
