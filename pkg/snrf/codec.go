// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package snrf

import (
	"encoding/binary"
	"fmt"
)

// byteOrder is the representation of multi-byte fields on the wire.
//
// The protocol has no byte order of its own: both ends copy their native
// integer layout. Host and gateway must therefore share endianness (the AVR
// gateway and x86/ARM hosts are all little-endian). Changing this breaks
// compatibility with existing gateways.
var byteOrder binary.ByteOrder = binary.NativeEndian

// Encode returns the wire representation of m
func (m Message) Encode() []byte {
	return m.AppendEncode(make([]byte, 0, MessageSize))
}

// AppendEncode appends the wire representation of m to dst.
// The whole body region is always written, including bytes the active
// operation does not use.
func (m Message) AppendEncode(dst []byte) []byte {
	dst = append(dst, byte(m.Op))
	dst = append(dst, m.Body[:]...)
	return append(dst, m.Sync)
}

// MarshalBinary implements encoding.BinaryMarshaler
func (m Message) MarshalBinary() ([]byte, error) {
	return m.Encode(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler
func (m *Message) UnmarshalBinary(data []byte) error {
	decoded, err := DecodeMessage(data)
	if err != nil {
		return err
	}
	*m = decoded
	return nil
}

// DecodeMessage decodes one message from exactly MessageSize bytes.
// The body is not checked against the operation.
func DecodeMessage(data []byte) (Message, error) {
	if len(data) != MessageSize {
		return Message{}, fmt.Errorf("%w: got %d bytes, want %d", ErrMessageSize, len(data), MessageSize)
	}
	var m Message
	m.Op = Op(data[offsetOp])
	copy(m.Body[:], data[offsetBody:OffsetSync])
	m.Sync = data[OffsetSync]
	return m, nil
}
