// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package snrf provides a reference Go implementation of the SNRF serial
// protocol.
//
// SNRF is spoken between a host and a radio gateway over a serial link. Every
// exchange is one fixed-size message: an operation byte, a union region wide
// enough for the largest operation body, and a trailing sync marker used to
// request resynchronization. This package provides the message codec, key and
// value names, capture files and session statistics shared by the host and
// device packages.
package snrf

// Message layout
const (
	MaxPayloadSize = 16

	// BodySize is the width of the union region (payload data + size byte)
	BodySize = MaxPayloadSize + 1

	// MessageSize is the total encoded size: op + body + sync marker
	MessageSize = 1 + BodySize + 1

	offsetOp   = 0
	offsetBody = 1
	// OffsetSync is the position of the sync marker in an encoded message
	OffsetSync = offsetBody + BodySize
)

// Reserved bytes
const (
	SyncRequest    = 0xFF
	SyncTerminator = 0x2A
)

// ProtocolVersion is reported in the INFO key
const ProtocolVersion = 1

// Op is the message operation
type Op uint8

// Operations
const (
	OpSet        Op = 0
	OpGet        Op = 1
	OpPayload    Op = 2
	OpCompletion Op = 3
	OpDebug      Op = 4
)

// Key identifies a configuration value
type Key uint8

// Configuration keys
const (
	KeyInfo         Key = 0
	KeyState        Key = 1
	KeyCRC          Key = 2
	KeyRate         Key = 3
	KeyChannel      Key = 4
	KeyAddrWidth    Key = 5
	KeyRxAddr       Key = 6
	KeyTxAddr       Key = 7
	KeyTxAck        Key = 8
	KeyPayloadWidth Key = 9
	KeyUartFlags    Key = 10
)

// ErrorCode is the completion status carried in COMPLETION messages
type ErrorCode uint8

// Completion codes
const (
	CodeSuccess          ErrorCode = 0
	CodeFailure          ErrorCode = 1
	CodeUnknownOperation ErrorCode = 2
	CodeUnknownKey       ErrorCode = 3
	CodeInvalidValue     ErrorCode = 4
	CodeWrongState       ErrorCode = 5
)

// State is the gateway state
type State uint32

// Gateway states
const (
	StateConfiguring     State = 0
	StateTransmitReceive State = 1

	stateCount = 2
)

// Valid reports whether s is a known state
func (s State) Valid() bool {
	return s < stateCount
}

// CRC mode values
const (
	CRCDisabled = 0
	CRC8        = 1
	CRC16       = 2
)

// Data rate values
const (
	Rate250Kbps = 0
	Rate1Mbps   = 1
	Rate2Mbps   = 2
	Rate50Kbps  = 3
)

// Address width values
const (
	AddrWidth3 = 0
	AddrWidth4 = 1
	AddrWidth5 = 2
)

// Tx ack values
const (
	TxAckDisabled = 0
	TxAckEnabled  = 1
)

// Receiver diagnostic flags reported by KeyUartFlags
const (
	FlagMissedByte = 1 << 0
	FlagFrameError = 1 << 1
)
