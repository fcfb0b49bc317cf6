// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package snrf

import (
	"fmt"
	"strings"
	"time"
)

// FormatMessage formats a message into a human-readable string
func FormatMessage(m *Message, timestamp time.Time) string {
	result := fmt.Sprintf("[%s] %s (0x%02X)", timestamp.Format("15:04:05.000"), FormatOp(m.Op), uint8(m.Op))
	if m.IsSyncRequest() {
		result += " SYNC"
	}
	return result + "\n" + FormatBody(m)
}

// FormatOp returns the human-readable name for an operation
func FormatOp(op Op) string {
	switch op {
	case OpSet:
		return "SET"
	case OpGet:
		return "GET"
	case OpPayload:
		return "PAYLOAD"
	case OpCompletion:
		return "COMPLETION"
	case OpDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// FormatErrorCode returns the human-readable name for a completion code
func FormatErrorCode(code ErrorCode) string {
	switch code {
	case CodeSuccess:
		return "SUCCESS"
	case CodeFailure:
		return "FAILURE"
	case CodeUnknownOperation:
		return "UNKNOWN_OPERATION"
	case CodeUnknownKey:
		return "UNKNOWN_KEY"
	case CodeInvalidValue:
		return "INVALID_VALUE"
	case CodeWrongState:
		return "WRONG_STATE"
	default:
		return fmt.Sprintf("ERROR_0x%02X", uint8(code))
	}
}

// FormatState returns the human-readable name for a gateway state
func FormatState(s State) string {
	switch s {
	case StateConfiguring:
		return "CONFIGURING"
	case StateTransmitReceive:
		return "TRANSMIT_RECEIVE"
	default:
		return "UNKNOWN"
	}
}

// FormatBody formats the active union view of a message
func FormatBody(m *Message) string {
	switch m.Op {
	case OpSet:
		return fmt.Sprintf("  Set: %s\n", FormatKeyValue(m.Key(), m.Value()))

	case OpGet:
		return fmt.Sprintf("  Get: %s\n", m.Key())

	case OpPayload:
		size := m.PayloadSize()
		if size > MaxPayloadSize {
			return fmt.Sprintf("  Payload: invalid size %d\n", size)
		}
		return fmt.Sprintf("  Payload (%d bytes): %s\n", size, FormatHex(m.Payload()))

	case OpCompletion:
		code, value := m.Completion()
		return fmt.Sprintf("  Status: %s, Value: 0x%08X\n", FormatErrorCode(code), value)

	case OpDebug:
		data, line := m.Debug()
		return fmt.Sprintf("  Data: 0x%08X, Line: %d\n", data, line)
	}

	// Default: hex dump
	return fmt.Sprintf("  Body: %s\n", FormatHex(m.Body[:]))
}

// FormatHex formats bytes as space separated hex, 8 bytes per group
func FormatHex(data []byte) string {
	var b strings.Builder
	for i, x := range data {
		if i > 0 {
			if i%8 == 0 {
				b.WriteString("  ")
			} else {
				b.WriteString(" ")
			}
		}
		fmt.Fprintf(&b, "%02x", x)
	}
	return b.String()
}
