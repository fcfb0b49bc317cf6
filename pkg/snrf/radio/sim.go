// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package radio

import (
	"errors"
	"fmt"
	"sync"

	"github.com/golang/glog"

	"github.com/Thermoquad/snrf/pkg/snrf"
	"github.com/Thermoquad/snrf/pkg/snrf/device"
)

// rxFIFODepth matches the three-level receive FIFO of the transceivers
const rxFIFODepth = 3

var (
	// ErrNotTransmitting is returned by SendPayload outside transmit mode.
	ErrNotTransmitting = errors.New("radio not in transmit mode")
	// ErrNoTransmission is returned by WaitSendComplete with nothing sent.
	ErrNoTransmission = errors.New("no transmission in progress")
)

// Sim is a simulated transceiver implementing device.Radio
type Sim struct {
	profile *Profile
	ether   *Ether

	mu        sync.Mutex
	mode      device.Mode
	config    map[snrf.Key]uint32
	rx        [][]byte
	txLog     [][]byte
	inFlight  []byte
	onReceive func()
}

var (
	_ device.Radio           = (*Sim)(nil)
	_ device.ReceiveNotifier = (*Sim)(nil)
)

// NewSim creates a powered-down radio with the profile defaults and attaches
// it to ether. ether may be nil for a radio nobody can hear.
func NewSim(profile *Profile, ether *Ether) *Sim {
	s := &Sim{
		profile: profile,
		ether:   ether,
		mode:    device.ModePowerDown,
		config:  make(map[snrf.Key]uint32, len(profile.defaults)),
	}
	for k, v := range profile.defaults {
		s.config[k] = v
	}
	if ether != nil {
		ether.attach(s)
	}
	return s
}

// Close detaches the radio from its ether
func (s *Sim) Close() {
	if s.ether != nil {
		s.ether.detach(s)
	}
}

// Profile returns the transceiver model
func (s *Sim) Profile() *Profile {
	return s.profile
}

// Mode returns the current mode
func (s *Sim) Mode() device.Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// SetMode implements device.Radio
func (s *Sim) SetMode(m device.Mode) error {
	if m < device.ModePowerDown || m > device.ModeReceive {
		return fmt.Errorf("%w: mode %d", device.ErrInvalidValue, m)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode != m {
		glog.V(2).Infof("%s: %s -> %s", s.profile.Name, s.mode, m)
	}
	s.mode = m
	return nil
}

// SendPayload implements device.Radio
func (s *Sim) SendPayload(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.mode != device.ModeTransmit {
		return ErrNotTransmitting
	}
	frame := append([]byte(nil), data...)
	s.txLog = append(s.txLog, frame)
	s.inFlight = frame
	return nil
}

// WaitSendComplete implements device.Radio. The frame reaches the other
// radios on the ether when the transmission completes.
func (s *Sim) WaitSendComplete() error {
	s.mu.Lock()
	frame := s.inFlight
	s.inFlight = nil
	air := s.tuning()
	s.mu.Unlock()

	if frame == nil {
		return ErrNoTransmission
	}
	if s.ether != nil {
		n := s.ether.transmit(s, air, frame)
		glog.V(2).Infof("%s: sent %d bytes on channel %d, %d receivers", s.profile.Name, len(frame), air.channel, n)
	}
	return nil
}

// PollReceive implements device.Radio
func (s *Sim) PollReceive() ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.rx) == 0 {
		return nil, false
	}
	frame := s.rx[0]
	s.rx = s.rx[1:]
	return frame, true
}

// ReceivePending implements device.Radio
func (s *Sim) ReceivePending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rx) > 0
}

// GetConfig implements device.Radio
func (s *Sim) GetConfig(key snrf.Key) (uint32, error) {
	if key == snrf.KeyInfo {
		return uint32(s.profile.ID), nil
	}
	if _, ok := s.profile.accepts[key]; !ok {
		return 0, fmt.Errorf("%w: %s on %s", device.ErrUnknownKey, key, s.profile.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	v := s.config[key]
	if key == snrf.KeyRxAddr || key == snrf.KeyTxAddr {
		v &= addressMask(s.config[snrf.KeyAddrWidth])
	}
	return v, nil
}

// SetConfig implements device.Radio
func (s *Sim) SetConfig(key snrf.Key, value uint32) error {
	if key == snrf.KeyInfo {
		return fmt.Errorf("%w: info is read-only", device.ErrInvalidValue)
	}
	accept, ok := s.profile.accepts[key]
	if !ok {
		return fmt.Errorf("%w: %s on %s", device.ErrUnknownKey, key, s.profile.Name)
	}
	if !accept(value) {
		return fmt.Errorf("%w: %s = %d on %s", device.ErrInvalidValue, key, value, s.profile.Name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.config[key] = value
	return nil
}

// SetReceiveHandler implements device.ReceiveNotifier
func (s *Sim) SetReceiveHandler(h func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReceive = h
}

// TxLog returns a copy of every payload sent
func (s *Sim) TxLog() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([][]byte, len(s.txLog))
	for i, frame := range s.txLog {
		out[i] = append([]byte(nil), frame...)
	}
	return out
}

// Inject delivers a frame as if it had been received over the air,
// bypassing addressing. Returns false if the radio dropped it.
func (s *Sim) Inject(data []byte) bool {
	return s.deliver(append([]byte(nil), data...))
}

// airParams is what two radios must agree on to hear each other
type airParams struct {
	channel uint32
	rate    uint32
	crc     uint32
	width   uint32
	address uint32
}

// tuning returns the transmit parameters. Caller holds s.mu.
func (s *Sim) tuning() airParams {
	width := s.config[snrf.KeyAddrWidth]
	return airParams{
		channel: s.config[snrf.KeyChannel],
		rate:    s.config[snrf.KeyRate],
		crc:     s.config[snrf.KeyCRC],
		width:   width,
		address: s.config[snrf.KeyTxAddr] & addressMask(width),
	}
}

// hears reports whether a transmission with air parameters reaches s
func (s *Sim) hears(air airParams) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	width := s.config[snrf.KeyAddrWidth]
	return s.mode == device.ModeReceive &&
		s.config[snrf.KeyChannel] == air.channel &&
		s.config[snrf.KeyRate] == air.rate &&
		s.config[snrf.KeyCRC] == air.crc &&
		width == air.width &&
		s.config[snrf.KeyRxAddr]&addressMask(width) == air.address
}

// deliver queues a received frame and raises the receive interrupt
func (s *Sim) deliver(frame []byte) bool {
	s.mu.Lock()
	if len(s.rx) >= rxFIFODepth {
		s.mu.Unlock()
		glog.V(1).Infof("%s: rx fifo full, frame dropped", s.profile.Name)
		return false
	}
	s.rx = append(s.rx, frame)
	h := s.onReceive
	s.mu.Unlock()

	if h != nil {
		h()
	}
	return true
}
