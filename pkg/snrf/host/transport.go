// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package host

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Transport is the byte link a Session talks over
type Transport interface {
	// Write sends p and waits until it has left the host
	Write(p []byte) error
	// ReadFull fills p. When ctx ends first the bytes received so far are
	// kept for the next call and ctx.Err() is returned.
	ReadFull(ctx context.Context, p []byte) error
	// Flush discards everything received but not yet read
	Flush() error
	Close() error
}

// drainer is implemented by serial ports that can wait for the output
// buffer to be transmitted
type drainer interface {
	Drain() error
}

type inputResetter interface {
	ResetInputBuffer() error
}

type outputResetter interface {
	ResetOutputBuffer() error
}

const readChunkSize = 64

// Port is a Transport over a byte stream such as a serial port, a
// WebSocket connection or a pipe.
//
// A reader goroutine owns the blocking Read calls and hands chunks over a
// channel, so reads can be abandoned on a deadline without losing bytes.
type Port struct {
	conn io.ReadWriteCloser

	chunks chan []byte
	quit   chan struct{}
	done   chan struct{}
	err    error // valid once done is closed

	buf       []byte
	closeOnce sync.Once
}

// NewPort starts reading conn
func NewPort(conn io.ReadWriteCloser) *Port {
	p := &Port{
		conn:   conn,
		chunks: make(chan []byte),
		quit:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go p.readLoop()
	return p
}

func (p *Port) readLoop() {
	defer close(p.done)

	for {
		chunk := make([]byte, readChunkSize)
		n, err := p.conn.Read(chunk)
		if n > 0 {
			select {
			case p.chunks <- chunk[:n]:
			case <-p.quit:
				p.err = ErrClosed
				return
			}
		}
		if err != nil {
			p.err = err
			return
		}
	}
}

// Write implements Transport
func (p *Port) Write(data []byte) error {
	if _, err := p.conn.Write(data); err != nil {
		return fmt.Errorf("failed to write: %w", err)
	}
	if d, ok := p.conn.(drainer); ok {
		if err := d.Drain(); err != nil {
			return fmt.Errorf("failed to drain: %w", err)
		}
	}
	return nil
}

// ReadFull implements Transport
func (p *Port) ReadFull(ctx context.Context, dst []byte) error {
	for len(p.buf) < len(dst) {
		select {
		case chunk := <-p.chunks:
			p.buf = append(p.buf, chunk...)
		case <-p.done:
			return fmt.Errorf("failed to read: %w", p.err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	n := copy(dst, p.buf)
	p.buf = p.buf[n:]
	if len(p.buf) == 0 {
		p.buf = nil
	}
	return nil
}

// Buffered returns the number of received bytes not yet read
func (p *Port) Buffered() int {
	return len(p.buf)
}

// Flush implements Transport. Serial ports also discard their OS buffers.
func (p *Port) Flush() error {
	if r, ok := p.conn.(inputResetter); ok {
		if err := r.ResetInputBuffer(); err != nil {
			return fmt.Errorf("failed to reset input buffer: %w", err)
		}
	}
	if r, ok := p.conn.(outputResetter); ok {
		if err := r.ResetOutputBuffer(); err != nil {
			return fmt.Errorf("failed to reset output buffer: %w", err)
		}
	}

	for {
		select {
		case <-p.chunks:
		default:
			p.buf = nil
			return nil
		}
	}
}

// Close stops the reader and closes the connection
func (p *Port) Close() error {
	var err error
	p.closeOnce.Do(func() {
		close(p.quit)
		err = p.conn.Close()
	})
	return err
}
