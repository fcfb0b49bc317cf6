// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package device

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thermoquad/snrf/pkg/snrf"
)

func TestRxBufferAccumulates(t *testing.T) {
	var rx RxBuffer
	want := snrf.NewSet(snrf.KeyChannel, 76)
	data := want.Encode()

	for i, b := range data {
		require.False(t, rx.Full(), "full after %d bytes", i)
		rx.Receive(b, false)
		assert.Equal(t, i+1, rx.Position())
	}

	require.True(t, rx.Full())
	assert.False(t, rx.SyncRequested())
	assert.Equal(t, want, rx.Message())
	assert.Zero(t, rx.Flags())
}

func TestRxBufferMissedByte(t *testing.T) {
	var rx RxBuffer
	for i := 0; i < snrf.MessageSize; i++ {
		rx.Receive(byte(i), false)
	}
	before := rx.Message()

	rx.Receive(0xAB, false)

	assert.Equal(t, snrf.MessageSize, rx.Position())
	assert.Equal(t, uint32(snrf.FlagMissedByte), rx.Flags())
	assert.Equal(t, before, rx.Message(), "a dropped byte must not touch the buffer")

	rx.Release()
	assert.Equal(t, 0, rx.Position())
	assert.Equal(t, uint32(snrf.FlagMissedByte), rx.Flags(), "flags survive release")
}

func TestRxBufferFaultForcesSync(t *testing.T) {
	var rx RxBuffer
	rx.Receive(0x01, false)
	rx.Receive(0x02, false)

	rx.Receive(0x00, true)

	require.True(t, rx.Full())
	assert.True(t, rx.SyncRequested())
	assert.Equal(t, uint32(snrf.FlagFrameError), rx.Flags())
}

func TestRxBufferSyncMessage(t *testing.T) {
	var rx RxBuffer
	for _, b := range snrf.SyncMessage().Encode() {
		rx.Receive(b, false)
	}
	assert.True(t, rx.Full())
	assert.True(t, rx.SyncRequested())
}

func TestRxBufferSetFlags(t *testing.T) {
	var rx RxBuffer
	rx.Receive(0, true)
	rx.Receive(0, false)
	assert.Equal(t, uint32(snrf.FlagMissedByte|snrf.FlagFrameError), rx.Flags())

	rx.SetFlags(0)
	assert.Zero(t, rx.Flags())
}
