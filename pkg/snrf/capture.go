// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package snrf

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"
)

// Record is one captured payload.
// Records are stored as a stream of CBOR maps with integer keys.
type Record struct {
	Time    int64  `cbor:"0,keyasint"` // unix milliseconds
	Payload []byte `cbor:"1,keyasint"`
}

// Timestamp returns the capture time of the record
func (r *Record) Timestamp() time.Time {
	return time.UnixMilli(r.Time)
}

// CaptureWriter appends payload records to a capture stream
type CaptureWriter struct {
	enc *cbor.Encoder
}

// NewCaptureWriter creates a capture writer on w
func NewCaptureWriter(w io.Writer) *CaptureWriter {
	return &CaptureWriter{enc: cbor.NewEncoder(w)}
}

// Write appends one record
func (c *CaptureWriter) Write(ts time.Time, payload []byte) error {
	rec := Record{Time: ts.UnixMilli(), Payload: payload}
	if err := c.enc.Encode(&rec); err != nil {
		return fmt.Errorf("failed to encode capture record: %w", err)
	}
	return nil
}

// CaptureReader reads payload records from a capture stream
type CaptureReader struct {
	dec *cbor.Decoder
}

// NewCaptureReader creates a capture reader on r
func NewCaptureReader(r io.Reader) *CaptureReader {
	return &CaptureReader{dec: cbor.NewDecoder(r)}
}

// Next returns the next record, or io.EOF at the end of the stream
func (c *CaptureReader) Next() (*Record, error) {
	var rec Record
	if err := c.dec.Decode(&rec); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("failed to decode capture record: %w", err)
	}
	if len(rec.Payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: captured %d bytes", ErrPayloadTooLarge, len(rec.Payload))
	}
	return &rec, nil
}
