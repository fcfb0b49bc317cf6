// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package device

import (
	"sync/atomic"

	"github.com/Thermoquad/snrf/pkg/snrf"
)

// RxBuffer accumulates one message from the line.
//
// Receive runs in interrupt context and is the only writer of the bytes. It
// only ever advances the position, and a byte is stored before the position
// moves past it, so a reader that sees the position at MessageSize also sees a
// completely written message. Only the sequential side calls Release.
type RxBuffer struct {
	buf   [snrf.MessageSize]byte
	pos   atomic.Uint32
	flags atomic.Uint32
}

// Receive handles one byte from the line. fault reports a framing, parity
// or overrun condition on that byte.
func (b *RxBuffer) Receive(x byte, fault bool) {
	pos := b.pos.Load()

	// Missed byte: the previous message is not consumed yet
	if pos == snrf.MessageSize {
		b.flags.Or(snrf.FlagMissedByte)
		return
	}

	// Force a full buffer requesting synchronization
	if fault {
		b.flags.Or(snrf.FlagFrameError)
		b.buf[snrf.OffsetSync] = snrf.SyncRequest
		b.pos.Store(snrf.MessageSize)
		return
	}

	b.buf[pos] = x
	b.pos.Store(pos + 1)
}

// Full reports whether a complete message is waiting
func (b *RxBuffer) Full() bool {
	return b.pos.Load() == snrf.MessageSize
}

// Position returns the number of accumulated bytes
func (b *RxBuffer) Position() int {
	return int(b.pos.Load())
}

// SyncRequested reports whether the waiting message requests
// resynchronization. Only meaningful when Full.
func (b *RxBuffer) SyncRequested() bool {
	return b.buf[snrf.OffsetSync] == snrf.SyncRequest
}

// Message decodes the waiting message. Only meaningful when Full.
func (b *RxBuffer) Message() snrf.Message {
	m, _ := snrf.DecodeMessage(b.buf[:])
	return m
}

// Release makes the buffer available to the interrupt handler again
func (b *RxBuffer) Release() {
	b.pos.Store(0)
}

// Flags returns the diagnostic flags
func (b *RxBuffer) Flags() uint32 {
	return b.flags.Load()
}

// SetFlags overwrites the diagnostic flags
func (b *RxBuffer) SetFlags(flags uint32) {
	b.flags.Store(flags)
}
