// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package snrf

import (
	"fmt"
	"strconv"
	"strings"
)

// keyNames maps configuration keys to their CLI names
var keyNames = map[Key]string{
	KeyInfo:         "info",
	KeyState:        "state",
	KeyCRC:          "crc",
	KeyRate:         "rate",
	KeyChannel:      "chan",
	KeyAddrWidth:    "addr_width",
	KeyRxAddr:       "rx_addr",
	KeyTxAddr:       "tx_addr",
	KeyTxAck:        "tx_ack",
	KeyPayloadWidth: "payload_width",
	KeyUartFlags:    "uart_flags",
}

// valueNames maps enumerated values to their CLI names, per key
var valueNames = map[Key]map[uint32]string{
	KeyState: {
		uint32(StateConfiguring):     "conf",
		uint32(StateTransmitReceive): "txrx",
	},
	KeyCRC: {
		CRCDisabled: "disabled",
		CRC8:        "8",
		CRC16:       "16",
	},
	KeyRate: {
		Rate250Kbps: "250KBPS",
		Rate1Mbps:   "1MBPS",
		Rate2Mbps:   "2MBPS",
		Rate50Kbps:  "50KBPS",
	},
	KeyAddrWidth: {
		AddrWidth3: "3",
		AddrWidth4: "4",
		AddrWidth5: "5",
	},
	KeyTxAck: {
		TxAckDisabled: "disabled",
		TxAckEnabled:  "enabled",
	},
}

// Keys returns every known key in numeric order
func Keys() []Key {
	keys := make([]Key, 0, len(keyNames))
	for k := KeyInfo; k <= KeyUartFlags; k++ {
		keys = append(keys, k)
	}
	return keys
}

// String returns the CLI name of the key
func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("key(%d)", uint8(k))
}

// ParseKey parses a key given by name or numeric id (decimal or 0x hex).
// Numeric ids are accepted even when unknown so undocumented keys can be tried.
func ParseKey(s string) (Key, error) {
	if isDigit(s) {
		v, err := parseUint(s, 8)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrUnknownKeyName, s)
		}
		return Key(v), nil
	}
	for k, name := range keyNames {
		if name == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownKeyName, s)
}

// ParseValue parses a value for key. Enumerated keys accept their value
// names; numbers are accepted for every key. Address width names are byte
// counts ("3", "4", "5") and map onto the enumeration.
func ParseValue(key Key, s string) (uint32, error) {
	if names, ok := valueNames[key]; ok {
		for v, name := range names {
			if strings.EqualFold(name, s) {
				return v, nil
			}
		}
		// CRC and address width names are numeric themselves
		if key == KeyCRC || key == KeyAddrWidth {
			return 0, fmt.Errorf("%w for %s: %q", ErrInvalidValueName, key, s)
		}
	}
	if !isDigit(s) {
		return 0, fmt.Errorf("%w for %s: %q", ErrInvalidValueName, key, s)
	}
	v, err := parseUint(s, 32)
	if err != nil {
		return 0, fmt.Errorf("%w for %s: %q", ErrInvalidValueName, key, s)
	}
	return uint32(v), nil
}

// FormatValue returns the human-readable form of a value for key
func FormatValue(key Key, value uint32) string {
	if names, ok := valueNames[key]; ok {
		if name, ok := names[value]; ok {
			return name
		}
		return "invalid"
	}
	switch key {
	case KeyInfo, KeyRxAddr, KeyTxAddr:
		return fmt.Sprintf("0x%08x", value)
	case KeyUartFlags:
		return fmt.Sprintf("0x%02x", value)
	default:
		return fmt.Sprintf("%d", value)
	}
}

// FormatKeyValue formats a key/value pair as "key = value"
func FormatKeyValue(key Key, value uint32) string {
	return fmt.Sprintf("%s = %s", key, FormatValue(key, value))
}

func isDigit(s string) bool {
	return len(s) > 0 && s[0] >= '0' && s[0] <= '9'
}

func parseUint(s string, bits int) (uint64, error) {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return strconv.ParseUint(s[2:], 16, bits)
	}
	return strconv.ParseUint(s, 10, bits)
}
