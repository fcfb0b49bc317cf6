// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package device

import (
	"bufio"
	"io"
)

// Line is the gateway side of the serial link.
//
// ReadByte blocks until a byte arrives. It returns ErrLineFault (possibly
// wrapped) when the byte was damaged by a framing, parity or overrun
// condition; any other error ends the gateway.
type Line interface {
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}

// StreamLine adapts a byte stream (a pipe, a socket, a serial port) to a Line.
// A stream never reports line faults.
type StreamLine struct {
	r *bufio.Reader
	w io.Writer
}

// NewStreamLine creates a Line reading and writing rw
func NewStreamLine(rw io.ReadWriter) *StreamLine {
	return &StreamLine{
		r: bufio.NewReader(rw),
		w: rw,
	}
}

// ReadByte implements Line
func (l *StreamLine) ReadByte() (byte, error) {
	return l.r.ReadByte()
}

// Write implements Line
func (l *StreamLine) Write(p []byte) (int, error) {
	return l.w.Write(p)
}
