// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package device

import (
	"errors"

	"github.com/golang/glog"

	"github.com/Thermoquad/snrf/pkg/snrf"
)

// Dispatch executes one received message and rewrites it in place into the
// COMPLETION reply. It must only run on the sequential side.
func (g *Gateway) Dispatch(m *snrf.Message) {
	switch m.Op {
	case snrf.OpSet:
		g.handleSet(m)
	case snrf.OpGet:
		g.handleGet(m)
	case snrf.OpPayload:
		g.handlePayload(m)
	default:
		g.fail(m, snrf.CodeUnknownOperation, "op 0x%02x", uint8(m.Op))
	}
}

// fail replies with an error code and a zero value. The reason replaces the
// source line the firmware logs for the failing branch.
func (g *Gateway) fail(m *snrf.Message, code snrf.ErrorCode, format string, args ...interface{}) {
	if glog.V(1) {
		glog.Infof("%s: "+format, append([]interface{}{snrf.FormatErrorCode(code)}, args...)...)
	}
	m.SetCompletion(code, 0)
}

func (g *Gateway) handleSet(m *snrf.Message) {
	key, value := m.Key(), m.Value()

	// Only the state may change outside configuration
	if g.state != snrf.StateConfiguring && key != snrf.KeyState {
		g.fail(m, snrf.CodeInvalidValue, "set %s while %s", key, snrf.FormatState(g.state))
		return
	}

	switch key {
	case snrf.KeyState:
		target := snrf.State(value)
		if !target.Valid() {
			g.fail(m, snrf.CodeInvalidValue, "state %d", value)
			return
		}
		// Re-entering the current state leaves the radio alone
		if target != g.state {
			if err := g.setState(target); err != nil {
				g.fail(m, snrf.CodeFailure, "enter %s: %v", snrf.FormatState(target), err)
				return
			}
		}

	case snrf.KeyUartFlags:
		g.rx.SetFlags(value)

	case snrf.KeyInfo:
		g.fail(m, snrf.CodeInvalidValue, "info is read-only")
		return

	default:
		if err := g.radio.SetConfig(key, value); err != nil {
			g.configError(m, key, err)
			return
		}
	}

	m.SetCompletion(snrf.CodeSuccess, 0)
}

func (g *Gateway) handleGet(m *snrf.Message) {
	key := m.Key()

	var value uint32
	switch key {
	case snrf.KeyState:
		value = uint32(g.state)

	case snrf.KeyUartFlags:
		value = g.rx.Flags()

	case snrf.KeyInfo:
		id, err := g.radio.GetConfig(snrf.KeyInfo)
		if err != nil {
			g.configError(m, key, err)
			return
		}
		value = id&0xFF | snrf.ProtocolVersion<<8

	default:
		v, err := g.radio.GetConfig(key)
		if err != nil {
			g.configError(m, key, err)
			return
		}
		value = v
	}

	m.SetCompletion(snrf.CodeSuccess, value)
}

func (g *Gateway) configError(m *snrf.Message, key snrf.Key, err error) {
	switch {
	case errors.Is(err, ErrUnknownKey):
		g.fail(m, snrf.CodeUnknownKey, "%s: %v", key, err)
	case errors.Is(err, ErrInvalidValue):
		g.fail(m, snrf.CodeInvalidValue, "%s: %v", key, err)
	default:
		g.fail(m, snrf.CodeFailure, "%s: %v", key, err)
	}
}

func (g *Gateway) handlePayload(m *snrf.Message) {
	if g.state != snrf.StateTransmitReceive {
		g.fail(m, snrf.CodeWrongState, "payload while %s", snrf.FormatState(g.state))
		return
	}

	size := m.PayloadSize()
	if size > snrf.MaxPayloadSize {
		g.fail(m, snrf.CodeInvalidValue, "payload size %d", size)
		return
	}

	if err := g.transmit(m.Body[:size]); err != nil {
		g.fail(m, snrf.CodeFailure, "transmit: %v", err)
		return
	}

	m.SetCompletion(snrf.CodeSuccess, 0)
}

// transmit sends one payload and returns the radio to receive mode
func (g *Gateway) transmit(data []byte) error {
	if err := g.radio.SetMode(ModeTransmit); err != nil {
		return err
	}

	err := g.radio.SendPayload(data)
	if err == nil {
		err = g.radio.WaitSendComplete()
	}

	if rerr := g.radio.SetMode(ModeReceive); err == nil {
		err = rerr
	}
	return err
}

// setState applies the radio mode for target and records it
func (g *Gateway) setState(target snrf.State) error {
	var err error
	switch target {
	case snrf.StateConfiguring:
		err = g.radio.SetMode(ModePowerDown)
	case snrf.StateTransmitReceive:
		if err = g.radio.SetMode(ModeStandby); err == nil {
			err = g.radio.SetMode(ModeReceive)
		}
	}
	if err != nil {
		return err
	}

	if g.state != target {
		glog.V(1).Infof("state %s -> %s", snrf.FormatState(g.state), snrf.FormatState(target))
	}
	g.state = target
	return nil
}
