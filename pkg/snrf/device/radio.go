// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package device

import "github.com/Thermoquad/snrf/pkg/snrf"

// Mode is a radio operating mode
type Mode int

// Radio modes
const (
	ModePowerDown Mode = iota
	ModeStandby
	ModeTransmit
	ModeReceive
)

// String returns the mode name
func (m Mode) String() string {
	switch m {
	case ModePowerDown:
		return "power-down"
	case ModeStandby:
		return "standby"
	case ModeTransmit:
		return "transmit"
	case ModeReceive:
		return "receive"
	default:
		return "unknown"
	}
}

// Radio is the capability set of a transceiver back-end.
//
// Back-ends own their register-level details. SetConfig validates values
// against what the transceiver accepts and returns ErrInvalidValue or
// ErrUnknownKey. KeyInfo reads the back-end identification.
type Radio interface {
	SetMode(Mode) error
	// SendPayload returns once the transmission is initiated
	SendPayload(data []byte) error
	// WaitSendComplete blocks until the transmit-complete indication
	WaitSendComplete() error
	// PollReceive returns a received payload without blocking
	PollReceive() ([]byte, bool)
	// ReceivePending reports whether PollReceive would return a payload,
	// without consuming it
	ReceivePending() bool
	GetConfig(key snrf.Key) (uint32, error)
	SetConfig(key snrf.Key, value uint32) error
}

// ReceiveNotifier is implemented by radios that raise an interrupt when a
// payload is received. The handler may be called from any goroutine.
type ReceiveNotifier interface {
	SetReceiveHandler(func())
}
