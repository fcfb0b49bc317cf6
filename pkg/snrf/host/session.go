// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package host implements the host side of the SNRF protocol: a session
// that correlates requests with completions, queues unsolicited messages and
// recovers framing with timeout-triggered resynchronization.
package host

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang/glog"

	"github.com/Thermoquad/snrf/pkg/snrf"
)

// Session defaults
const (
	DefaultTimeout  = time.Second
	DefaultAttempts = 4
	DefaultSyncPace = time.Millisecond
)

// Session talks to one gateway.
//
// A Session is not safe for concurrent use; see Loop for sharing one between
// goroutines.
type Session struct {
	t Transport

	timeout  time.Duration
	attempts int
	syncPace time.Duration
	stats    *snrf.Statistics

	pending pendingQueue
	state   snrf.State
}

// Option configures a Session
type Option func(*Session)

// WithTimeout sets how long each attempt waits for a completion
func WithTimeout(d time.Duration) Option {
	return func(s *Session) {
		s.timeout = d
	}
}

// WithAttempts sets how many times a request is written before giving up
func WithAttempts(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.attempts = n
		}
	}
}

// WithSyncPace sets the delay between sync bytes during resynchronization
func WithSyncPace(d time.Duration) Option {
	return func(s *Session) {
		s.syncPace = d
	}
}

// WithStatistics records session events into stats
func WithStatistics(stats *snrf.Statistics) Option {
	return func(s *Session) {
		s.stats = stats
	}
}

// NewSession creates a session over t. The mirrored state starts as
// CONFIGURING, which is what the gateway reports after power-up or a resync.
func NewSession(t Transport, opts ...Option) *Session {
	s := &Session{
		t:        t,
		timeout:  DefaultTimeout,
		attempts: DefaultAttempts,
		syncPace: DefaultSyncPace,
		state:    snrf.StateConfiguring,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates a session and mirrors the gateway state
func Open(ctx context.Context, t Transport, opts ...Option) (*Session, error) {
	s := NewSession(t, opts...)
	v, err := s.Get(ctx, snrf.KeyState)
	if err != nil {
		return nil, fmt.Errorf("failed to read gateway state: %w", err)
	}
	s.state = snrf.State(v)
	return s, nil
}

// State returns the mirrored gateway state
func (s *Session) State() snrf.State {
	return s.state
}

// Statistics returns the statistics tracker, or nil
func (s *Session) Statistics() *snrf.Statistics {
	return s.stats
}

// Pending returns the number of queued unsolicited messages
func (s *Session) Pending() int {
	return s.pending.len()
}

// PopPending removes the oldest queued message, of any operation
func (s *Session) PopPending() (snrf.Message, bool) {
	return s.pending.pop()
}

// Close closes the transport
func (s *Session) Close() error {
	return s.t.Close()
}

// Request writes req and returns the next COMPLETION. Messages received
// before it are queued.
//
// When an attempt times out the session resynchronizes and writes req
// again; after the last attempt ErrRetryExhausted is returned. ctx bounds
// only the waiting: a resynchronization always runs to completion.
func (s *Session) Request(ctx context.Context, req snrf.Message) (snrf.Message, error) {
	data := req.Encode()

	for attempt := 1; ; attempt++ {
		s.stats.Record(snrf.EventRequest)
		if err := s.t.Write(data); err != nil {
			return snrf.Message{}, err
		}

		reply, err := s.awaitCompletion(ctx)
		if err == nil {
			s.stats.Record(snrf.EventCompletion)
			return reply, nil
		}
		if !errors.Is(err, errAttemptTimeout) {
			return snrf.Message{}, err
		}

		s.stats.Record(snrf.EventTimeout)
		if attempt >= s.attempts {
			s.stats.Record(snrf.EventRetryExhausted)
			return snrf.Message{}, fmt.Errorf("%s: %w (%d attempts)", snrf.FormatOp(req.Op), ErrRetryExhausted, attempt)
		}

		glog.Warningf("no completion for %s within %v, resynchronizing (attempt %d/%d)",
			snrf.FormatOp(req.Op), s.timeout, attempt, s.attempts)
		if err := s.Sync(); err != nil {
			return snrf.Message{}, err
		}
	}
}

// awaitCompletion reads until a COMPLETION arrives or the attempt times out
func (s *Session) awaitCompletion(ctx context.Context) (snrf.Message, error) {
	actx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	for {
		m, err := s.readMessage(actx)
		if err != nil {
			if ctx.Err() != nil {
				return snrf.Message{}, ctx.Err()
			}
			if actx.Err() != nil {
				return snrf.Message{}, errAttemptTimeout
			}
			return snrf.Message{}, err
		}

		if m.Op == snrf.OpCompletion {
			return m, nil
		}
		s.queue(m)
	}
}

func (s *Session) readMessage(ctx context.Context) (snrf.Message, error) {
	var buf [snrf.MessageSize]byte
	if err := s.t.ReadFull(ctx, buf[:]); err != nil {
		return snrf.Message{}, err
	}

	m, _ := snrf.DecodeMessage(buf[:])
	if glog.V(2) {
		glog.Infof("rx %s", snrf.FormatHex(buf[:]))
	}
	return m, nil
}

func (s *Session) queue(m snrf.Message) {
	s.stats.Record(snrf.EventQueued)
	if m.Op != snrf.OpPayload {
		glog.V(1).Infof("queued unexpected %s message", snrf.FormatOp(m.Op))
	}
	s.pending.push(m)
}

// Sync runs the host side of resynchronization: enough sync bytes to fill
// any partial message and request a resync, then the terminator once stale
// input is discarded. The gateway ends up CONFIGURING.
func (s *Session) Sync() error {
	s.stats.Record(snrf.EventResync)

	// One byte per write so the gateway sees each one as it arrives
	frame := snrf.SyncMessage().Encode()
	for i := 0; i < 4; i++ {
		for j := range frame {
			if err := s.t.Write(frame[j : j+1]); err != nil {
				return fmt.Errorf("resync: %w", err)
			}
			if s.syncPace > 0 {
				time.Sleep(s.syncPace)
			}
		}
	}

	if err := s.t.Flush(); err != nil {
		return fmt.Errorf("resync: %w", err)
	}
	if err := s.t.Write([]byte{snrf.SyncTerminator}); err != nil {
		return fmt.Errorf("resync: %w", err)
	}

	s.state = snrf.StateConfiguring
	return nil
}

// complete checks a completion status
func (s *Session) complete(reply snrf.Message) (uint32, error) {
	code, value := reply.Completion()
	if code != snrf.CodeSuccess {
		s.stats.Record(snrf.EventCompletionError)
		return 0, &snrf.CompletionError{Code: code}
	}
	return value, nil
}

// Set writes a configuration value. Only the state may be set outside
// CONFIGURING.
func (s *Session) Set(ctx context.Context, key snrf.Key, value uint32) error {
	if key != snrf.KeyState && s.state != snrf.StateConfiguring {
		return fmt.Errorf("set %s: %w: %s", key, ErrWrongState, snrf.FormatState(s.state))
	}

	reply, err := s.Request(ctx, snrf.NewSet(key, value))
	if err != nil {
		return err
	}
	if _, err := s.complete(reply); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}

	if key == snrf.KeyState {
		s.state = snrf.State(value)
	}
	return nil
}

// SetState switches the gateway state
func (s *Session) SetState(ctx context.Context, state snrf.State) error {
	return s.Set(ctx, snrf.KeyState, uint32(state))
}

// Get reads a configuration value
func (s *Session) Get(ctx context.Context, key snrf.Key) (uint32, error) {
	reply, err := s.Request(ctx, snrf.NewGet(key))
	if err != nil {
		return 0, err
	}
	value, err := s.complete(reply)
	if err != nil {
		return 0, fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// WritePayload transmits data over the radio. The gateway must be in
// TRANSMIT_RECEIVE.
func (s *Session) WritePayload(ctx context.Context, data []byte) error {
	m, err := snrf.NewPayload(data)
	if err != nil {
		return err
	}
	if s.state != snrf.StateTransmitReceive {
		return fmt.Errorf("write payload: %w: %s", ErrWrongState, snrf.FormatState(s.state))
	}

	reply, err := s.Request(ctx, m)
	if err != nil {
		return err
	}
	if _, err := s.complete(reply); err != nil {
		return fmt.Errorf("write payload: %w", err)
	}

	s.stats.Record(snrf.EventPayloadSent)
	return nil
}

// ReadPayload returns the next payload received over the radio. It waits
// until ctx ends.
//
// The oldest queued PAYLOAD is taken first even when other messages are
// queued ahead of it; those stay queued for PopPending.
func (s *Session) ReadPayload(ctx context.Context) ([]byte, error) {
	if m, ok := s.pending.popOp(snrf.OpPayload); ok {
		s.stats.Record(snrf.EventPayloadReceived)
		return m.Payload(), nil
	}

	for {
		m, err := s.readMessage(ctx)
		if err != nil {
			return nil, err
		}
		if m.Op == snrf.OpPayload {
			s.stats.Record(snrf.EventPayloadReceived)
			return m.Payload(), nil
		}
		s.queue(m)
	}
}
