// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package device

import "errors"

var (
	// ErrInvalidValue is returned by a Radio for a value it does not accept.
	ErrInvalidValue = errors.New("invalid value")
	// ErrUnknownKey is returned by a Radio for a key it does not handle.
	ErrUnknownKey = errors.New("unknown key")
	// ErrLineFault is returned by a Line for a framing, parity or overrun
	// condition. The byte is lost but the line stays usable.
	ErrLineFault = errors.New("line fault")
)
