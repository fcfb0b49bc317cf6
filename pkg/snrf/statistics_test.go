// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package snrf

import (
	"strings"
	"sync"
	"testing"
)

func TestStatisticsRecord(t *testing.T) {
	s := NewStatistics()
	s.Record(EventRequest)
	s.Record(EventRequest)
	s.Record(EventCompletion)
	s.Record(EventTimeout)
	s.Record(EventResync)
	s.Record(EventPayloadReceived)
	s.Record(EventQueued)

	snap := s.Snapshot()
	if snap.Requests != 2 {
		t.Errorf("Requests = %d, want 2", snap.Requests)
	}
	if snap.Completions != 1 || snap.Timeouts != 1 || snap.Resyncs != 1 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.PayloadsReceived != 1 || snap.Queued != 1 {
		t.Errorf("snapshot = %+v", snap)
	}

	out := s.String()
	if !strings.Contains(out, "Resyncs:") {
		t.Errorf("String() missing resync line:\n%s", out)
	}
	if strings.Contains(out, "Retries Exhausted") {
		t.Errorf("String() shows zero counter:\n%s", out)
	}

	s.Reset()
	if snap := s.Snapshot(); snap.Requests != 0 || snap.Completions != 0 {
		t.Errorf("after Reset() snapshot = %+v", snap)
	}
}

func TestStatisticsNilSafe(t *testing.T) {
	var s *Statistics
	s.Record(EventRequest)
}

func TestStatisticsConcurrent(t *testing.T) {
	s := NewStatistics()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Record(EventPayloadSent)
				_ = s.Snapshot()
			}
		}()
	}
	wg.Wait()

	if got := s.Snapshot().PayloadsSent; got != 800 {
		t.Errorf("PayloadsSent = %d, want 800", got)
	}
}
