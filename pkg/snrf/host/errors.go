// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package host

import "errors"

var (
	// ErrRetryExhausted is returned when no completion arrived after every
	// attempt, each followed by a resynchronization.
	ErrRetryExhausted = errors.New("no completion after retries")
	// ErrWrongState is returned when a call is not allowed in the mirrored
	// gateway state. Nothing was sent.
	ErrWrongState = errors.New("wrong gateway state")
	// ErrClosed is returned by operations on a closed port or stopped loop.
	ErrClosed = errors.New("closed")

	errAttemptTimeout = errors.New("completion timeout")
)
