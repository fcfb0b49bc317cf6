// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package device

import (
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/Thermoquad/snrf/pkg/snrf"
)

// mockRadio records what the gateway asks of it
type mockRadio struct {
	mu      sync.Mutex
	modes   []Mode
	sent    [][]byte
	config  map[snrf.Key]uint32
	rx      [][]byte
	handler func()
	sendErr error
}

func newMockRadio() *mockRadio {
	return &mockRadio{
		config: map[snrf.Key]uint32{
			snrf.KeyCRC:     snrf.CRC16,
			snrf.KeyChannel: 2,
		},
	}
}

func (r *mockRadio) SetMode(m Mode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modes = append(r.modes, m)
	return nil
}

func (r *mockRadio) SendPayload(data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sendErr != nil {
		return r.sendErr
	}
	r.sent = append(r.sent, append([]byte(nil), data...))
	return nil
}

func (r *mockRadio) WaitSendComplete() error { return nil }

func (r *mockRadio) PollReceive() ([]byte, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.rx) == 0 {
		return nil, false
	}
	data := r.rx[0]
	r.rx = r.rx[1:]
	return data, true
}

func (r *mockRadio) ReceivePending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.rx) > 0
}

func (r *mockRadio) GetConfig(key snrf.Key) (uint32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if key == snrf.KeyInfo {
		return 0x02, nil
	}
	v, ok := r.config[key]
	if !ok {
		return 0, ErrUnknownKey
	}
	return v, nil
}

func (r *mockRadio) SetConfig(key snrf.Key, value uint32) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.config[key]; !ok {
		return ErrUnknownKey
	}
	if key == snrf.KeyChannel && value > 125 {
		return ErrInvalidValue
	}
	r.config[key] = value
	return nil
}

func (r *mockRadio) SetReceiveHandler(h func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handler = h
}

// inject simulates a payload arriving over the air
func (r *mockRadio) inject(data []byte) {
	r.mu.Lock()
	r.rx = append(r.rx, data)
	h := r.handler
	r.mu.Unlock()
	if h != nil {
		h()
	}
}

func (r *mockRadio) lastMode() Mode {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.modes) == 0 {
		return -1
	}
	return r.modes[len(r.modes)-1]
}

// chanLine is a Line driven by the test
type chanLine struct {
	in  chan lineInput
	out chan []byte
}

type lineInput struct {
	b   byte
	err error
}

var errFramingTest = errors.New("framing")

func newChanLine() *chanLine {
	return &chanLine{
		in:  make(chan lineInput),
		out: make(chan []byte, 64),
	}
}

func (l *chanLine) ReadByte() (byte, error) {
	in, ok := <-l.in
	if !ok {
		return 0, io.EOF
	}
	return in.b, in.err
}

func (l *chanLine) Write(p []byte) (int, error) {
	l.out <- append([]byte(nil), p...)
	return len(p), nil
}

func (l *chanLine) send(t *testing.T, data ...byte) {
	t.Helper()
	for _, b := range data {
		select {
		case l.in <- lineInput{b: b}:
		case <-time.After(2 * time.Second):
			t.Fatal("gateway stopped reading the line")
		}
	}
}

func (l *chanLine) sendFault(t *testing.T) {
	t.Helper()
	select {
	case l.in <- lineInput{err: errors.Join(ErrLineFault, errFramingTest)}:
	case <-time.After(2 * time.Second):
		t.Fatal("gateway stopped reading the line")
	}
}

func (l *chanLine) sendMessage(t *testing.T, m snrf.Message) {
	t.Helper()
	l.send(t, m.Encode()...)
}

func (l *chanLine) receive(t *testing.T) snrf.Message {
	t.Helper()
	select {
	case data := <-l.out:
		m, err := snrf.DecodeMessage(data)
		if err != nil {
			t.Fatalf("gateway wrote %d bytes: %v", len(data), err)
		}
		return m
	case <-time.After(2 * time.Second):
		t.Fatal("no reply from gateway")
	}
	return snrf.Message{}
}
