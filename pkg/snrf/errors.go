// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package snrf

import (
	"errors"
	"fmt"
)

var (
	// ErrMessageSize is returned when decoding a buffer of the wrong length.
	ErrMessageSize = errors.New("invalid message size")
	// ErrPayloadTooLarge is returned when a payload exceeds MaxPayloadSize.
	ErrPayloadTooLarge = errors.New("payload too large")
	// ErrUnknownKeyName is returned when a key name cannot be parsed.
	ErrUnknownKeyName = errors.New("unknown key")
	// ErrInvalidValueName is returned when a value cannot be parsed for a key.
	ErrInvalidValueName = errors.New("invalid value")
)

// CompletionError wraps a non-success completion code from the gateway.
type CompletionError struct {
	Code ErrorCode
}

// Error implements error.
func (e *CompletionError) Error() string {
	return fmt.Sprintf("gateway replied %s", FormatErrorCode(e.Code))
}
