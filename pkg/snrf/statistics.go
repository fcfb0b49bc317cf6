// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package snrf

import (
	"fmt"
	"sync"
	"time"
)

// Statistics tracks session traffic and recovery counters.
// It is safe for concurrent use so a UI can read it while a session runs.
type Statistics struct {
	mu sync.Mutex

	StartTime      time.Time
	LastUpdateTime time.Time

	// Counters
	Requests         uint64
	Completions      uint64
	CompletionErrors uint64
	Timeouts         uint64
	Resyncs          uint64
	RetriesExhausted uint64
	PayloadsSent     uint64
	PayloadsReceived uint64
	Queued           uint64

	// Rates (calculated)
	MessageRate float64 // messages/sec
	ErrorRate   float64 // errors/sec
}

// StatisticsSnapshot is a copy of the counters
type StatisticsSnapshot struct {
	Elapsed          time.Duration
	Requests         uint64
	Completions      uint64
	CompletionErrors uint64
	Timeouts         uint64
	Resyncs          uint64
	RetriesExhausted uint64
	PayloadsSent     uint64
	PayloadsReceived uint64
	Queued           uint64
	MessageRate      float64
	ErrorRate        float64
}

// NewStatistics creates a new statistics tracker
func NewStatistics() *Statistics {
	now := time.Now()
	return &Statistics{
		StartTime:      now,
		LastUpdateTime: now,
	}
}

// Event identifies a counted session event
type Event int

// Session events
const (
	EventRequest Event = iota
	EventCompletion
	EventCompletionError
	EventTimeout
	EventResync
	EventRetryExhausted
	EventPayloadSent
	EventPayloadReceived
	EventQueued
)

// Record counts one event
func (s *Statistics) Record(ev Event) {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	switch ev {
	case EventRequest:
		s.Requests++
	case EventCompletion:
		s.Completions++
	case EventCompletionError:
		s.CompletionErrors++
	case EventTimeout:
		s.Timeouts++
	case EventResync:
		s.Resyncs++
	case EventRetryExhausted:
		s.RetriesExhausted++
	case EventPayloadSent:
		s.PayloadsSent++
	case EventPayloadReceived:
		s.PayloadsReceived++
	case EventQueued:
		s.Queued++
	}

	s.LastUpdateTime = time.Now()
}

// Snapshot calculates rates and returns a copy of the counters
func (s *Statistics) Snapshot() StatisticsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calculateRates()
	return StatisticsSnapshot{
		Elapsed:          time.Since(s.StartTime),
		Requests:         s.Requests,
		Completions:      s.Completions,
		CompletionErrors: s.CompletionErrors,
		Timeouts:         s.Timeouts,
		Resyncs:          s.Resyncs,
		RetriesExhausted: s.RetriesExhausted,
		PayloadsSent:     s.PayloadsSent,
		PayloadsReceived: s.PayloadsReceived,
		Queued:           s.Queued,
		MessageRate:      s.MessageRate,
		ErrorRate:        s.ErrorRate,
	}
}

func (s *Statistics) calculateRates() {
	elapsed := time.Since(s.StartTime).Seconds()
	if elapsed > 0 {
		messages := s.Completions + s.PayloadsReceived
		s.MessageRate = float64(messages) / elapsed
		errorCount := s.CompletionErrors + s.Timeouts + s.RetriesExhausted
		s.ErrorRate = float64(errorCount) / elapsed
	}
}

// String returns a formatted statistics summary
func (s *Statistics) String() string {
	snap := s.Snapshot()

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", snap.Elapsed.Seconds())
	result += fmt.Sprintf("Requests:          %8d\n", snap.Requests)
	result += fmt.Sprintf("Completions:       %8d\n", snap.Completions)
	if snap.CompletionErrors > 0 {
		result += fmt.Sprintf("Completion Errors: %8d\n", snap.CompletionErrors)
	}
	if snap.Timeouts > 0 {
		result += fmt.Sprintf("Timeouts:          %8d\n", snap.Timeouts)
	}
	if snap.Resyncs > 0 {
		result += fmt.Sprintf("Resyncs:           %8d\n", snap.Resyncs)
	}
	if snap.RetriesExhausted > 0 {
		result += fmt.Sprintf("Retries Exhausted: %8d\n", snap.RetriesExhausted)
	}
	result += fmt.Sprintf("Payloads Sent:     %8d\n", snap.PayloadsSent)
	result += fmt.Sprintf("Payloads Received: %8d\n", snap.PayloadsReceived)
	if snap.Queued > 0 {
		result += fmt.Sprintf("  Queued:            %6d\n", snap.Queued)
	}
	result += fmt.Sprintf("Message Rate:      %8.1f msgs/sec\n", snap.MessageRate)
	result += fmt.Sprintf("Error Rate:        %8.1f errors/sec\n", snap.ErrorRate)
	result += "================================\n"

	return result
}

// Reset resets all statistics counters
func (s *Statistics) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.StartTime = now
	s.LastUpdateTime = now
	s.Requests = 0
	s.Completions = 0
	s.CompletionErrors = 0
	s.Timeouts = 0
	s.Resyncs = 0
	s.RetriesExhausted = 0
	s.PayloadsSent = 0
	s.PayloadsReceived = 0
	s.Queued = 0
	s.MessageRate = 0
	s.ErrorRate = 0
}
