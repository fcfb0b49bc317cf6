// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package radio

import "sync"

// Ether is the shared medium simulated radios transmit on
type Ether struct {
	mu     sync.Mutex
	radios map[*Sim]struct{}
}

// NewEther creates an empty medium
func NewEther() *Ether {
	return &Ether{radios: make(map[*Sim]struct{})}
}

func (e *Ether) attach(s *Sim) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.radios[s] = struct{}{}
}

func (e *Ether) detach(s *Sim) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.radios, s)
}

// Len returns the number of attached radios
func (e *Ether) Len() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.radios)
}

// transmit delivers frame to every other radio tuned to air and returns how
// many accepted it
func (e *Ether) transmit(from *Sim, air airParams, frame []byte) int {
	e.mu.Lock()
	receivers := make([]*Sim, 0, len(e.radios))
	for r := range e.radios {
		if r != from {
			receivers = append(receivers, r)
		}
	}
	e.mu.Unlock()

	delivered := 0
	for _, r := range receivers {
		if r.hears(air) && r.deliver(append([]byte(nil), frame...)) {
			delivered++
		}
	}
	return delivered
}
