// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package device implements the gateway side of the SNRF protocol: the
// receive interrupt handler, the request dispatcher and the cooperative
// scheduler that ties them to a radio back-end.
package device

import (
	"context"
	"fmt"

	"github.com/golang/glog"

	"github.com/Thermoquad/snrf/pkg/snrf"
)

// Gateway is the device context: the protocol state, the receive buffer and
// the radio back-end. Everything except the RxBuffer interrupt path is owned
// by the goroutine running Run.
type Gateway struct {
	line  Line
	radio Radio
	rx    RxBuffer
	state snrf.State
	irq   *interrupts
}

// NewGateway creates a gateway in the configuration state
func NewGateway(line Line, radio Radio) *Gateway {
	return &Gateway{
		line:  line,
		radio: radio,
		state: snrf.StateConfiguring,
		irq:   newInterrupts(),
	}
}

// State returns the protocol state. Only safe while Run is not executing.
func (g *Gateway) State() snrf.State {
	return g.state
}

// Receiver returns the receive buffer
func (g *Gateway) Receiver() *RxBuffer {
	return &g.rx
}

// Run executes the scheduler until ctx is cancelled or the line fails.
//
// Each pass services the transport, then the radio while in
// transmit/receive, and sleeps when neither has work. Run does not close the
// line; the caller closes it after Run returns to release the reader.
func (g *Gateway) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := g.setState(snrf.StateConfiguring); err != nil {
		return fmt.Errorf("failed to power down radio: %w", err)
	}
	if n, ok := g.radio.(ReceiveNotifier); ok {
		n.SetReceiveHandler(g.irq.raise)
		defer n.SetReceiveHandler(nil)
	}

	go g.irq.readLine(ctx, g.line)
	go g.irq.serve(ctx, &g.rx)

	for {
		worked, err := g.pollTransport(ctx)
		if err != nil {
			return err
		}
		if g.state == snrf.StateTransmitReceive {
			sent, err := g.pollRadio()
			if err != nil {
				return err
			}
			worked = worked || sent
		}
		if worked {
			continue
		}
		if err := g.idle(ctx); err != nil {
			return err
		}
	}
}

// pollTransport dispatches a complete message or runs resynchronization
func (g *Gateway) pollTransport(ctx context.Context) (bool, error) {
	if !g.rx.Full() {
		return false, nil
	}

	if g.rx.SyncRequested() {
		return true, g.resync(ctx)
	}

	m := g.rx.Message()
	g.Dispatch(&m)

	// The reply is a private copy, so the buffer may refill while it is sent
	g.rx.Release()
	if _, err := g.line.Write(m.Encode()); err != nil {
		return true, fmt.Errorf("failed to write completion: %w", err)
	}
	return true, nil
}

// pollRadio forwards one received radio payload to the host
func (g *Gateway) pollRadio() (bool, error) {
	data, ok := g.radio.PollReceive()
	if !ok {
		return false, nil
	}
	if len(data) > snrf.MaxPayloadSize {
		glog.Warningf("truncating %d byte radio payload", len(data))
		data = data[:snrf.MaxPayloadSize]
	}

	m, _ := snrf.NewPayload(data)
	if _, err := g.line.Write(m.Encode()); err != nil {
		return true, fmt.Errorf("failed to write payload: %w", err)
	}
	return true, nil
}

// idle sleeps until an interrupt, unless work arrived since the last pass.
// The check runs with interrupts disabled and the sleep re-enables them, so a
// byte landing in between still wakes the scheduler.
func (g *Gateway) idle(ctx context.Context) error {
	if err := g.irq.disable(ctx); err != nil {
		return err
	}

	pending := g.rx.Full()
	if !pending && g.state == snrf.StateTransmitReceive {
		pending = g.radio.ReceivePending()
	}
	if pending {
		return g.irq.enable(ctx)
	}
	return g.irq.enableAndWait(ctx)
}

// resync discards input up to the next terminator and returns to the
// configuration state
func (g *Gateway) resync(ctx context.Context) error {
	glog.V(1).Infof("resync requested (flags 0x%02x)", g.rx.Flags())

	if err := g.irq.disable(ctx); err != nil {
		return err
	}
	g.rx.Release()

	skipped := 0
	for {
		ev, err := g.irq.readRaw(ctx)
		if err != nil {
			return err
		}
		if !ev.fault && ev.b == snrf.SyncTerminator {
			break
		}
		skipped++
	}
	glog.V(2).Infof("resync skipped %d bytes", skipped)

	if err := g.irq.enable(ctx); err != nil {
		return err
	}

	if g.state != snrf.StateConfiguring {
		if err := g.setState(snrf.StateConfiguring); err != nil {
			return fmt.Errorf("failed to leave %s: %w", snrf.FormatState(g.state), err)
		}
	}
	return nil
}
