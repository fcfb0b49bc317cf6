// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package device

import (
	"context"
	"errors"

	"github.com/golang/glog"
)

// lineEvent is one byte latched by the receive hardware
type lineEvent struct {
	b     byte
	fault bool
}

// interrupts models the gateway interrupt controller.
//
// The line goroutine plays the receive hardware and latches bytes into hw.
// The isr goroutine plays the receive interrupt: it feeds each latched byte
// into the RxBuffer and posts a wake-up. While interrupts are disabled the isr
// goroutine is parked, so the sequential side may read hw directly.
type interrupts struct {
	hw   chan lineEvent
	off  chan struct{}
	on   chan struct{}
	wake chan struct{}

	// done is closed when the line goroutine stops, err says why
	done chan struct{}
	err  error
}

func newInterrupts() *interrupts {
	return &interrupts{
		hw:   make(chan lineEvent),
		off:  make(chan struct{}),
		on:   make(chan struct{}),
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// raise posts a wake-up. A pending wake-up is never lost and never doubled.
func (irq *interrupts) raise() {
	select {
	case irq.wake <- struct{}{}:
	default:
	}
}

// readLine runs the receive hardware until the line fails
func (irq *interrupts) readLine(ctx context.Context, line Line) {
	defer close(irq.done)

	for {
		b, err := line.ReadByte()
		fault := false
		if err != nil {
			if !errors.Is(err, ErrLineFault) {
				irq.err = err
				return
			}
			glog.V(2).Infof("line fault: %v", err)
			fault = true
		}

		select {
		case irq.hw <- lineEvent{b: b, fault: fault}:
		case <-ctx.Done():
			irq.err = ctx.Err()
			return
		}
	}
}

// serve runs the receive interrupt handler
func (irq *interrupts) serve(ctx context.Context, rx *RxBuffer) {
	for {
		select {
		case ev := <-irq.hw:
			rx.Receive(ev.b, ev.fault)
			irq.raise()

		case <-irq.off:
			select {
			case <-irq.on:
			case <-ctx.Done():
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

// disable masks interrupts. When it returns no handler is running.
func (irq *interrupts) disable(ctx context.Context) error {
	select {
	case irq.off <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enable unmasks interrupts
func (irq *interrupts) enable(ctx context.Context) error {
	select {
	case irq.on <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// enableAndWait unmasks interrupts and sleeps until the next wake-up.
// A wake-up posted between the caller's idle check and the sleep is kept
// in the buffered wake channel, so it ends the sleep immediately.
func (irq *interrupts) enableAndWait(ctx context.Context) error {
	if err := irq.enable(ctx); err != nil {
		return err
	}
	select {
	case <-irq.wake:
		return nil
	case <-irq.done:
		return irq.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// readRaw reads one latched byte directly. Interrupts must be disabled.
func (irq *interrupts) readRaw(ctx context.Context) (lineEvent, error) {
	select {
	case ev := <-irq.hw:
		return ev, nil
	case <-irq.done:
		return lineEvent{}, irq.err
	case <-ctx.Done():
		return lineEvent{}, ctx.Err()
	}
}
