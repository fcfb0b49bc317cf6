// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package snrf

import (
	"errors"
	"testing"
)

func TestParseKey(t *testing.T) {
	tests := []struct {
		in      string
		want    Key
		wantErr bool
	}{
		{"info", KeyInfo, false},
		{"state", KeyState, false},
		{"chan", KeyChannel, false},
		{"payload_width", KeyPayloadWidth, false},
		{"uart_flags", KeyUartFlags, false},
		{"4", KeyChannel, false},
		{"0x0a", KeyUartFlags, false},
		{"200", Key(200), false},
		{"channel", 0, true},
		{"256", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKey(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownKeyName) {
					t.Errorf("ParseKey(%q) error = %v, want ErrUnknownKeyName", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseKey(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKey(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeyNamesRoundTrip(t *testing.T) {
	for _, k := range Keys() {
		got, err := ParseKey(k.String())
		if err != nil {
			t.Errorf("ParseKey(%q) error = %v", k.String(), err)
			continue
		}
		if got != k {
			t.Errorf("ParseKey(%q) = %d, want %d", k.String(), got, k)
		}
	}
	if len(Keys()) != 11 {
		t.Errorf("len(Keys()) = %d, want 11", len(Keys()))
	}
	if got := Key(99).String(); got != "key(99)" {
		t.Errorf("Key(99).String() = %q", got)
	}
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name    string
		key     Key
		in      string
		want    uint32
		wantErr bool
	}{
		{"state conf", KeyState, "conf", uint32(StateConfiguring), false},
		{"state txrx upper", KeyState, "TXRX", uint32(StateTransmitReceive), false},
		{"crc 16", KeyCRC, "16", CRC16, false},
		{"crc disabled", KeyCRC, "disabled", CRCDisabled, false},
		{"crc raw number rejected", KeyCRC, "2", 0, true},
		{"rate name", KeyRate, "2mbps", Rate2Mbps, false},
		{"rate number", KeyRate, "3", Rate50Kbps, false},
		{"addr width bytes", KeyAddrWidth, "5", AddrWidth5, false},
		{"addr width enum rejected", KeyAddrWidth, "0", 0, true},
		{"tx ack", KeyTxAck, "enabled", TxAckEnabled, false},
		{"channel", KeyChannel, "76", 76, false},
		{"address hex", KeyRxAddr, "0xe7e7e7e7", 0xE7E7E7E7, false},
		{"channel name rejected", KeyChannel, "high", 0, true},
		{"overflow", KeyChannel, "0x100000000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseValue(tt.key, tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidValueName) {
					t.Errorf("ParseValue(%s, %q) error = %v, want ErrInvalidValueName", tt.key, tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseValue(%s, %q) error = %v", tt.key, tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseValue(%s, %q) = %d, want %d", tt.key, tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		key   Key
		value uint32
		want  string
	}{
		{KeyState, 1, "txrx"},
		{KeyState, 7, "invalid"},
		{KeyCRC, CRC8, "8"},
		{KeyRate, Rate250Kbps, "250KBPS"},
		{KeyAddrWidth, AddrWidth4, "4"},
		{KeyTxAck, 0, "disabled"},
		{KeyChannel, 125, "125"},
		{KeyTxAddr, 0xE7E7E7E7, "0xe7e7e7e7"},
		{KeyUartFlags, FlagMissedByte | FlagFrameError, "0x03"},
	}

	for _, tt := range tests {
		if got := FormatValue(tt.key, tt.value); got != tt.want {
			t.Errorf("FormatValue(%s, %d) = %q, want %q", tt.key, tt.value, got, tt.want)
		}
	}

	if got := FormatKeyValue(KeyChannel, 2); got != "chan = 2" {
		t.Errorf("FormatKeyValue() = %q", got)
	}
}
