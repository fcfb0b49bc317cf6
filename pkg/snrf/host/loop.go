// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package host

import (
	"context"
	"errors"
	"time"
)

// DefaultPollInterval bounds how long a queued call waits for the loop
const DefaultPollInterval = 50 * time.Millisecond

// Received is a payload received over the radio
type Received struct {
	Time time.Time
	Data []byte
}

type call struct {
	ctx  context.Context
	fn   func(context.Context, *Session) error
	done chan error
}

// Loop owns a Session on one goroutine. It delivers received payloads on a
// channel and runs calls from other goroutines in between reads.
type Loop struct {
	s        *Session
	poll     time.Duration
	calls    chan call
	payloads chan Received
	stopped  chan struct{}
}

// NewLoop creates a loop for s. poll is how long each payload read waits
// before queued calls get a turn.
func NewLoop(s *Session, poll time.Duration) *Loop {
	if poll <= 0 {
		poll = DefaultPollInterval
	}
	return &Loop{
		s:        s,
		poll:     poll,
		calls:    make(chan call),
		payloads: make(chan Received, 16),
		stopped:  make(chan struct{}),
	}
}

// Payloads returns the channel of received payloads. It is closed when Run
// returns.
func (l *Loop) Payloads() <-chan Received {
	return l.payloads
}

// Run serves the session until ctx ends or the transport fails
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.stopped)
	defer close(l.payloads)

	for {
		select {
		case c := <-l.calls:
			c.done <- c.fn(c.ctx, l.s)
			continue
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		pctx, cancel := context.WithTimeout(ctx, l.poll)
		data, err := l.s.ReadPayload(pctx)
		cancel()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			return err
		}

		select {
		case l.payloads <- Received{Time: time.Now(), Data: data}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Do runs fn on the loop goroutine with ctx and returns its error
func (l *Loop) Do(ctx context.Context, fn func(context.Context, *Session) error) error {
	c := call{ctx: ctx, fn: fn, done: make(chan error, 1)}

	select {
	case l.calls <- c:
	case <-l.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-c.done:
		return err
	case <-l.stopped:
		select {
		case err := <-c.done:
			return err
		default:
			return ErrClosed
		}
	}
}

// Send transmits a payload from any goroutine
func (l *Loop) Send(ctx context.Context, data []byte) error {
	return l.Do(ctx, func(ctx context.Context, s *Session) error {
		return s.WritePayload(ctx, data)
	})
}
