// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package host

import (
	"context"

	"github.com/Thermoquad/snrf/pkg/snrf"
)

// fakeTransport is a scripted Transport. onRequest is called for every
// complete message written and returns the messages the gateway answers with.
type fakeTransport struct {
	in        []byte
	requests  []snrf.Message
	syncBytes int
	syncData  []byte
	flushes   int
	closed    bool

	onRequest func(n int, m snrf.Message) []snrf.Message
}

func (f *fakeTransport) Write(p []byte) error {
	if len(p) != snrf.MessageSize {
		f.syncBytes += len(p)
		f.syncData = append(f.syncData, p...)
		return nil
	}

	m, _ := snrf.DecodeMessage(p)
	f.requests = append(f.requests, m)
	if f.onRequest != nil {
		for _, reply := range f.onRequest(len(f.requests), m) {
			f.in = reply.AppendEncode(f.in)
		}
	}
	return nil
}

// ReadFull never blocks on script data; with nothing scripted it waits for ctx
func (f *fakeTransport) ReadFull(ctx context.Context, p []byte) error {
	if len(f.in) < len(p) {
		<-ctx.Done()
		return ctx.Err()
	}
	n := copy(p, f.in)
	f.in = f.in[n:]
	return nil
}

func (f *fakeTransport) Flush() error {
	f.flushes++
	f.in = nil
	return nil
}

func (f *fakeTransport) Close() error {
	f.closed = true
	return nil
}

// echoGateway answers every request like an idle gateway in state
func echoGateway(state *snrf.State) func(int, snrf.Message) []snrf.Message {
	return func(_ int, m snrf.Message) []snrf.Message {
		switch m.Op {
		case snrf.OpGet:
			if m.Key() == snrf.KeyState {
				return []snrf.Message{snrf.NewCompletion(snrf.CodeSuccess, uint32(*state))}
			}
			return []snrf.Message{snrf.NewCompletion(snrf.CodeSuccess, 7)}
		case snrf.OpSet:
			if m.Key() == snrf.KeyState {
				*state = snrf.State(m.Value())
			}
		}
		return []snrf.Message{snrf.NewCompletion(snrf.CodeSuccess, 0)}
	}
}

func payloadMessage(data ...byte) snrf.Message {
	m, _ := snrf.NewPayload(data)
	return m
}
