// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package snrf

import (
	"bytes"
	"errors"
	"testing"
)

func TestMessageLayout(t *testing.T) {
	if MessageSize != 19 {
		t.Fatalf("MessageSize = %d, want 19", MessageSize)
	}
	if OffsetSync != MessageSize-1 {
		t.Errorf("OffsetSync = %d, want %d", OffsetSync, MessageSize-1)
	}

	m := NewSet(KeyChannel, 0x01020304)
	data := m.Encode()
	if len(data) != MessageSize {
		t.Fatalf("Encode() length = %d, want %d", len(data), MessageSize)
	}
	if data[0] != byte(OpSet) {
		t.Errorf("op byte = 0x%02X, want 0x%02X", data[0], OpSet)
	}
	if data[1] != byte(KeyChannel) {
		t.Errorf("key byte = 0x%02X, want 0x%02X", data[1], KeyChannel)
	}
	if got := byteOrder.Uint32(data[2:6]); got != 0x01020304 {
		t.Errorf("value = 0x%08X, want 0x01020304", got)
	}
	if data[OffsetSync] != 0 {
		t.Errorf("sync = 0x%02X, want 0", data[OffsetSync])
	}
}

func TestPayloadLayout(t *testing.T) {
	m, err := NewPayload([]byte{0x41, 0x42})
	if err != nil {
		t.Fatalf("NewPayload() error = %v", err)
	}
	data := m.Encode()

	if data[0] != byte(OpPayload) {
		t.Errorf("op byte = 0x%02X, want 0x%02X", data[0], OpPayload)
	}
	if !bytes.Equal(data[1:3], []byte{0x41, 0x42}) {
		t.Errorf("payload = % x, want 41 42", data[1:3])
	}
	// size lives in the last body byte
	if data[1+MaxPayloadSize] != 2 {
		t.Errorf("size byte = %d, want 2", data[1+MaxPayloadSize])
	}
}

func TestNewPayloadTooLarge(t *testing.T) {
	_, err := NewPayload(make([]byte, MaxPayloadSize+1))
	if !errors.Is(err, ErrPayloadTooLarge) {
		t.Errorf("NewPayload(17 bytes) error = %v, want ErrPayloadTooLarge", err)
	}

	if _, err := NewPayload(make([]byte, MaxPayloadSize)); err != nil {
		t.Errorf("NewPayload(16 bytes) error = %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	payload, _ := NewPayload([]byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16})

	tests := []struct {
		name string
		msg  Message
	}{
		{"set", NewSet(KeyTxAddr, 0xE7E7E7E7)},
		{"get", NewGet(KeyUartFlags)},
		{"full payload", payload},
		{"completion", NewCompletion(CodeWrongState, 0)},
		{"debug", NewDebug(0xDEADBEEF, 117)},
		{"sync", SyncMessage()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := tt.msg.Encode()
			got, err := DecodeMessage(data)
			if err != nil {
				t.Fatalf("DecodeMessage() error = %v", err)
			}
			if got != tt.msg {
				t.Errorf("DecodeMessage() = %+v, want %+v", got, tt.msg)
			}
		})
	}
}

func TestDecodeMessageSize(t *testing.T) {
	for _, n := range []int{0, 1, MessageSize - 1, MessageSize + 1} {
		_, err := DecodeMessage(make([]byte, n))
		if !errors.Is(err, ErrMessageSize) {
			t.Errorf("DecodeMessage(%d bytes) error = %v, want ErrMessageSize", n, err)
		}
	}
}

func TestSetCompletionInPlace(t *testing.T) {
	m := NewGet(KeyChannel)
	m.Sync = 0x55
	m.SetCompletion(CodeSuccess, 76)

	if m.Op != OpCompletion {
		t.Errorf("Op = %d, want %d", m.Op, OpCompletion)
	}
	code, value := m.Completion()
	if code != CodeSuccess || value != 76 {
		t.Errorf("Completion() = (%d, %d), want (0, 76)", code, value)
	}
	if m.Sync != 0 {
		t.Errorf("Sync = 0x%02X, want 0", m.Sync)
	}
}

func TestPayloadClampsCorruptSize(t *testing.T) {
	var m Message
	m.Op = OpPayload
	m.Body[MaxPayloadSize] = 0xFF

	if m.PayloadSize() != 0xFF {
		t.Errorf("PayloadSize() = %d, want 255", m.PayloadSize())
	}
	if len(m.Payload()) != MaxPayloadSize {
		t.Errorf("len(Payload()) = %d, want %d", len(m.Payload()), MaxPayloadSize)
	}
}

func TestSyncMessage(t *testing.T) {
	m := SyncMessage()
	if !m.IsSyncRequest() {
		t.Error("IsSyncRequest() = false")
	}
	for i, b := range m.Encode() {
		if b != SyncRequest {
			t.Errorf("byte %d = 0x%02X, want 0xFF", i, b)
		}
	}
}

func TestAccessorsOnReturnedMessages(t *testing.T) {
	// Read-only accessors work directly on constructor results
	if got := len(SyncMessage().Encode()); got != MessageSize {
		t.Errorf("Encode() length = %d, want %d", got, MessageSize)
	}
	if code, value := NewCompletion(CodeWrongState, 3).Completion(); code != CodeWrongState || value != 3 {
		t.Errorf("Completion() = %d, %d", code, value)
	}
	if got := NewGet(KeyTxAddr).Key(); got != KeyTxAddr {
		t.Errorf("Key() = %d, want %d", got, KeyTxAddr)
	}
	if got := NewSet(KeyChannel, 9).Value(); got != 9 {
		t.Errorf("Value() = %d, want 9", got)
	}
	if !SyncMessage().IsSyncRequest() {
		t.Error("sync message does not request sync")
	}
}

func TestBinaryMarshaler(t *testing.T) {
	want := NewDebug(1, 2)
	data, err := want.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary() error = %v", err)
	}

	var got Message
	if err := got.UnmarshalBinary(data); err != nil {
		t.Fatalf("UnmarshalBinary() error = %v", err)
	}
	if got != want {
		t.Errorf("UnmarshalBinary() = %+v, want %+v", got, want)
	}

	if err := got.UnmarshalBinary(data[:4]); !errors.Is(err, ErrMessageSize) {
		t.Errorf("UnmarshalBinary(short) error = %v, want ErrMessageSize", err)
	}
}

func TestFormatMessage(t *testing.T) {
	payload, _ := NewPayload([]byte{0xAA, 0xBB})

	tests := []struct {
		name string
		msg  Message
		want string
	}{
		{"set", NewSet(KeyRate, Rate1Mbps), "Set: rate = 1MBPS"},
		{"get", NewGet(KeyCRC), "Get: crc"},
		{"payload", payload, "Payload (2 bytes): aa bb"},
		{"completion", NewCompletion(CodeUnknownKey, 0), "Status: UNKNOWN_KEY"},
		{"debug", NewDebug(0x10, 42), "Line: 42"},
		{"unknown op", Message{Op: 9}, "Body: 00 00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBody(&tt.msg)
			if !bytes.Contains([]byte(got), []byte(tt.want)) {
				t.Errorf("FormatBody() = %q, want substring %q", got, tt.want)
			}
		})
	}
}

func TestFormatHex(t *testing.T) {
	got := FormatHex([]byte{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})
	want := "00 01 02 03 04 05 06 07  08 09"
	if got != want {
		t.Errorf("FormatHex() = %q, want %q", got, want)
	}
}

func TestFormatErrorCode(t *testing.T) {
	if got := FormatErrorCode(CodeInvalidValue); got != "INVALID_VALUE" {
		t.Errorf("FormatErrorCode(4) = %q", got)
	}
	if got := FormatErrorCode(ErrorCode(0x42)); got != "ERROR_0x42" {
		t.Errorf("FormatErrorCode(0x42) = %q", got)
	}

	err := &CompletionError{Code: CodeWrongState}
	if err.Error() != "gateway replied WRONG_STATE" {
		t.Errorf("CompletionError.Error() = %q", err.Error())
	}
}
