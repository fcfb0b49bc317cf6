// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package snrf

import "fmt"

// Message is one SNRF protocol message.
//
// Body is the raw union region. Which view of it is meaningful depends on Op;
// the constructors and accessors below read and write the views at their fixed
// offsets. Nothing checks that the view matches Op.
type Message struct {
	Op   Op
	Body [BodySize]byte
	Sync byte
}

// Union view offsets within Body
const (
	bodyKey        = 0 // set.key, get.key, completion.err
	bodyValue      = 1 // set.val, completion.val (4 bytes)
	bodyDebugData  = 0 // debug.data (4 bytes)
	bodyDebugLine  = 4 // debug.line (4 bytes)
	bodyPayloadLen = MaxPayloadSize
)

// NewSet creates a SET message
func NewSet(key Key, value uint32) Message {
	m := Message{Op: OpSet}
	m.Body[bodyKey] = byte(key)
	byteOrder.PutUint32(m.Body[bodyValue:], value)
	return m
}

// NewGet creates a GET message
func NewGet(key Key) Message {
	m := Message{Op: OpGet}
	m.Body[bodyKey] = byte(key)
	return m
}

// NewPayload creates a PAYLOAD message.
// Returns ErrPayloadTooLarge if data does not fit in one message.
func NewPayload(data []byte) (Message, error) {
	if len(data) > MaxPayloadSize {
		return Message{}, fmt.Errorf("%w: %d bytes (max %d)", ErrPayloadTooLarge, len(data), MaxPayloadSize)
	}
	m := Message{Op: OpPayload}
	copy(m.Body[:MaxPayloadSize], data)
	m.Body[bodyPayloadLen] = byte(len(data))
	return m, nil
}

// NewCompletion creates a COMPLETION message
func NewCompletion(code ErrorCode, value uint32) Message {
	m := Message{Op: OpCompletion}
	m.Body[bodyKey] = byte(code)
	byteOrder.PutUint32(m.Body[bodyValue:], value)
	return m
}

// NewDebug creates a DEBUG message
func NewDebug(data, line uint32) Message {
	m := Message{Op: OpDebug}
	byteOrder.PutUint32(m.Body[bodyDebugData:], data)
	byteOrder.PutUint32(m.Body[bodyDebugLine:], line)
	return m
}

// SyncMessage returns a message whose sync marker requests resynchronization
func SyncMessage() Message {
	m := Message{Op: SyncRequest, Sync: SyncRequest}
	for i := range m.Body {
		m.Body[i] = SyncRequest
	}
	return m
}

// Key returns the key of a SET or GET message
func (m Message) Key() Key {
	return Key(m.Body[bodyKey])
}

// Value returns the value of a SET message
func (m Message) Value() uint32 {
	return byteOrder.Uint32(m.Body[bodyValue:])
}

// Completion returns the status and value of a COMPLETION message
func (m Message) Completion() (ErrorCode, uint32) {
	return ErrorCode(m.Body[bodyKey]), byteOrder.Uint32(m.Body[bodyValue:])
}

// PayloadSize returns the declared size of a PAYLOAD message, which may
// exceed MaxPayloadSize on a corrupted message
func (m Message) PayloadSize() int {
	return int(m.Body[bodyPayloadLen])
}

// Payload returns a copy of the data of a PAYLOAD message.
// The declared size is clamped to MaxPayloadSize.
func (m Message) Payload() []byte {
	size := m.PayloadSize()
	if size > MaxPayloadSize {
		size = MaxPayloadSize
	}
	data := make([]byte, size)
	copy(data, m.Body[:size])
	return data
}

// Debug returns the fields of a DEBUG message
func (m Message) Debug() (data, line uint32) {
	return byteOrder.Uint32(m.Body[bodyDebugData:]), byteOrder.Uint32(m.Body[bodyDebugLine:])
}

// SetCompletion turns m into a COMPLETION carrying code and value, reusing
// the message in place the way the gateway builds its reply
func (m *Message) SetCompletion(code ErrorCode, value uint32) {
	m.Op = OpCompletion
	m.Body[bodyKey] = byte(code)
	byteOrder.PutUint32(m.Body[bodyValue:], value)
	m.Sync = 0
}

// IsSyncRequest reports whether the sync marker requests resynchronization
func (m Message) IsSyncRequest() bool {
	return m.Sync == SyncRequest
}
