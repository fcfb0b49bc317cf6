// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

// Package radio provides simulated transceiver back-ends for the gateway.
//
// Each back-end is described by a Profile: the values its configuration keys
// accept and the defaults the gateway firmware programs at power-up. Sim
// radios attached to the same Ether exchange payloads.
package radio

import "github.com/Thermoquad/snrf/pkg/snrf"

// Profile ids reported through the INFO key
const (
	IDNRF24L01P = 0x01
	IDNRF905    = 0x02
)

// Profile describes one transceiver model
type Profile struct {
	ID   uint8
	Name string

	// accepts holds a validator for every key the transceiver handles
	accepts  map[snrf.Key]func(uint32) bool
	defaults map[snrf.Key]uint32
}

func oneOf(values ...uint32) func(uint32) bool {
	return func(v uint32) bool {
		for _, x := range values {
			if v == x {
				return true
			}
		}
		return false
	}
}

func upTo(max uint32) func(uint32) bool {
	return func(v uint32) bool { return v <= max }
}

func any32(uint32) bool { return true }

// NRF24L01P is the 2.4 GHz nRF24L01+ transceiver
var NRF24L01P = &Profile{
	ID:   IDNRF24L01P,
	Name: "nrf24l01p",
	accepts: map[snrf.Key]func(uint32) bool{
		snrf.KeyCRC:          oneOf(snrf.CRCDisabled, snrf.CRC8, snrf.CRC16),
		snrf.KeyRate:         oneOf(snrf.Rate250Kbps, snrf.Rate1Mbps, snrf.Rate2Mbps),
		snrf.KeyChannel:      upTo(125),
		snrf.KeyAddrWidth:    oneOf(snrf.AddrWidth3, snrf.AddrWidth4, snrf.AddrWidth5),
		snrf.KeyRxAddr:       any32,
		snrf.KeyTxAddr:       any32,
		snrf.KeyTxAck:        oneOf(snrf.TxAckDisabled, snrf.TxAckEnabled),
		snrf.KeyPayloadWidth: upTo(snrf.MaxPayloadSize),
	},
	defaults: map[snrf.Key]uint32{
		snrf.KeyCRC:          snrf.CRCDisabled,
		snrf.KeyRate:         snrf.Rate2Mbps,
		snrf.KeyChannel:      2,
		snrf.KeyAddrWidth:    snrf.AddrWidth3,
		snrf.KeyRxAddr:       0xE7E7E7E7,
		snrf.KeyTxAddr:       0xE7E7E7E7,
		snrf.KeyTxAck:        snrf.TxAckDisabled,
		snrf.KeyPayloadWidth: 4,
	},
}

// NRF905 is the sub-GHz nRF905 transceiver
var NRF905 = &Profile{
	ID:   IDNRF905,
	Name: "nrf905",
	accepts: map[snrf.Key]func(uint32) bool{
		snrf.KeyCRC:          oneOf(snrf.CRCDisabled, snrf.CRC8, snrf.CRC16),
		snrf.KeyRate:         oneOf(snrf.Rate50Kbps),
		snrf.KeyChannel:      upTo(511),
		snrf.KeyAddrWidth:    oneOf(snrf.AddrWidth3, snrf.AddrWidth4),
		snrf.KeyRxAddr:       any32,
		snrf.KeyTxAddr:       any32,
		snrf.KeyTxAck:        oneOf(snrf.TxAckDisabled),
		snrf.KeyPayloadWidth: upTo(snrf.MaxPayloadSize),
	},
	defaults: map[snrf.Key]uint32{
		snrf.KeyCRC:          snrf.CRC16,
		snrf.KeyRate:         snrf.Rate50Kbps,
		snrf.KeyChannel:      108,
		snrf.KeyAddrWidth:    snrf.AddrWidth4,
		snrf.KeyRxAddr:       0xE7E7E7E7,
		snrf.KeyTxAddr:       0xE7E7E7E7,
		snrf.KeyTxAck:        snrf.TxAckDisabled,
		snrf.KeyPayloadWidth: snrf.MaxPayloadSize,
	},
}

// Profiles lists the known transceivers by name
var Profiles = map[string]*Profile{
	NRF24L01P.Name: NRF24L01P,
	NRF905.Name:    NRF905,
}

// addressMask returns the bits of a 32-bit address kept on air for an
// address width. Addresses go out most significant byte first, so a 3-byte
// width drops the low byte.
func addressMask(width uint32) uint32 {
	if width == snrf.AddrWidth3 {
		return 0xFFFFFF00
	}
	return 0xFFFFFFFF
}
