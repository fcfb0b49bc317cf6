// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Kaz Walker, Thermoquad

package radio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Thermoquad/snrf/pkg/snrf"
	"github.com/Thermoquad/snrf/pkg/snrf/device"
)

func TestProfileValidation(t *testing.T) {
	tests := []struct {
		name    string
		profile *Profile
		key     snrf.Key
		value   uint32
		wantErr error
	}{
		{"nrf24 max channel", NRF24L01P, snrf.KeyChannel, 125, nil},
		{"nrf24 channel too high", NRF24L01P, snrf.KeyChannel, 126, device.ErrInvalidValue},
		{"nrf24 2mbps", NRF24L01P, snrf.KeyRate, snrf.Rate2Mbps, nil},
		{"nrf24 50kbps", NRF24L01P, snrf.KeyRate, snrf.Rate50Kbps, device.ErrInvalidValue},
		{"nrf24 5 byte address", NRF24L01P, snrf.KeyAddrWidth, snrf.AddrWidth5, nil},
		{"nrf24 tx ack", NRF24L01P, snrf.KeyTxAck, snrf.TxAckEnabled, nil},
		{"nrf24 payload width", NRF24L01P, snrf.KeyPayloadWidth, 17, device.ErrInvalidValue},
		{"nrf24 crc", NRF24L01P, snrf.KeyCRC, 3, device.ErrInvalidValue},
		{"nrf905 high channel", NRF905, snrf.KeyChannel, 511, nil},
		{"nrf905 channel too high", NRF905, snrf.KeyChannel, 512, device.ErrInvalidValue},
		{"nrf905 50kbps", NRF905, snrf.KeyRate, snrf.Rate50Kbps, nil},
		{"nrf905 1mbps", NRF905, snrf.KeyRate, snrf.Rate1Mbps, device.ErrInvalidValue},
		{"nrf905 5 byte address", NRF905, snrf.KeyAddrWidth, snrf.AddrWidth5, device.ErrInvalidValue},
		{"nrf905 tx ack", NRF905, snrf.KeyTxAck, snrf.TxAckEnabled, device.ErrInvalidValue},
		{"info is read-only", NRF905, snrf.KeyInfo, 0, device.ErrInvalidValue},
		{"unknown key", NRF24L01P, snrf.Key(0x40), 0, device.ErrUnknownKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSim(tt.profile, nil)
			err := s.SetConfig(tt.key, tt.value)
			if tt.wantErr == nil {
				require.NoError(t, err)
				got, err := s.GetConfig(tt.key)
				require.NoError(t, err)
				assert.Equal(t, tt.value, got)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestSimDefaultsAndInfo(t *testing.T) {
	s := NewSim(NRF24L01P, nil)

	ch, err := s.GetConfig(snrf.KeyChannel)
	require.NoError(t, err)
	assert.Equal(t, uint32(2), ch)

	id, err := s.GetConfig(snrf.KeyInfo)
	require.NoError(t, err)
	assert.Equal(t, uint32(IDNRF24L01P), id)

	assert.Equal(t, device.ModePowerDown, s.Mode())

	_, err = s.GetConfig(snrf.KeyState)
	assert.ErrorIs(t, err, device.ErrUnknownKey)
}

func TestSimAddressTruncation(t *testing.T) {
	s := NewSim(NRF24L01P, nil)

	require.NoError(t, s.SetConfig(snrf.KeyAddrWidth, snrf.AddrWidth3))
	require.NoError(t, s.SetConfig(snrf.KeyRxAddr, 0x11223344))

	got, err := s.GetConfig(snrf.KeyRxAddr)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11223300), got)

	require.NoError(t, s.SetConfig(snrf.KeyAddrWidth, snrf.AddrWidth4))
	got, err = s.GetConfig(snrf.KeyRxAddr)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11223344), got)
}

func TestSimSendRequiresTransmitMode(t *testing.T) {
	s := NewSim(NRF905, nil)

	assert.ErrorIs(t, s.SendPayload([]byte{1}), ErrNotTransmitting)
	assert.ErrorIs(t, s.WaitSendComplete(), ErrNoTransmission)

	require.NoError(t, s.SetMode(device.ModeTransmit))
	require.NoError(t, s.SendPayload([]byte{0x41, 0x42}))
	require.NoError(t, s.WaitSendComplete())
	assert.Equal(t, [][]byte{{0x41, 0x42}}, s.TxLog())

	assert.ErrorIs(t, s.SetMode(device.Mode(9)), device.ErrInvalidValue)
}

func TestEtherDelivery(t *testing.T) {
	ether := NewEther()
	a := NewSim(NRF24L01P, ether)
	b := NewSim(NRF24L01P, ether)
	c := NewSim(NRF24L01P, ether)
	defer a.Close()
	defer b.Close()
	defer c.Close()
	require.Equal(t, 3, ether.Len())

	// c listens elsewhere
	require.NoError(t, c.SetConfig(snrf.KeyChannel, 40))

	notified := 0
	b.SetReceiveHandler(func() { notified++ })

	require.NoError(t, b.SetMode(device.ModeReceive))
	require.NoError(t, c.SetMode(device.ModeReceive))
	require.NoError(t, a.SetMode(device.ModeTransmit))
	require.NoError(t, a.SendPayload([]byte{0xCA, 0xFE}))
	require.NoError(t, a.WaitSendComplete())

	data, ok := b.PollReceive()
	require.True(t, ok)
	assert.Equal(t, []byte{0xCA, 0xFE}, data)
	assert.Equal(t, 1, notified)

	assert.False(t, c.ReceivePending(), "different channel")
	assert.False(t, a.ReceivePending(), "sender does not hear itself")
}

func TestEtherAddressMismatch(t *testing.T) {
	ether := NewEther()
	a := NewSim(NRF905, ether)
	b := NewSim(NRF905, ether)

	require.NoError(t, b.SetConfig(snrf.KeyRxAddr, 0x01020304))
	require.NoError(t, b.SetMode(device.ModeReceive))
	require.NoError(t, a.SetMode(device.ModeTransmit))
	require.NoError(t, a.SendPayload([]byte{1}))
	require.NoError(t, a.WaitSendComplete())
	assert.False(t, b.ReceivePending())

	b.Close()
	assert.Equal(t, 1, ether.Len())
}

func TestSimReceiveRequiresReceiveMode(t *testing.T) {
	ether := NewEther()
	a := NewSim(NRF24L01P, ether)
	b := NewSim(NRF24L01P, ether)

	require.NoError(t, a.SetMode(device.ModeTransmit))
	require.NoError(t, a.SendPayload([]byte{1}))
	require.NoError(t, a.WaitSendComplete())

	assert.False(t, b.ReceivePending(), "powered-down radio hears nothing")
}

func TestSimFIFODepth(t *testing.T) {
	s := NewSim(NRF24L01P, nil)
	for i := 0; i < rxFIFODepth; i++ {
		require.True(t, s.Inject([]byte{byte(i)}))
	}
	assert.False(t, s.Inject([]byte{0xFF}), "full fifo drops new frames")

	for i := 0; i < rxFIFODepth; i++ {
		data, ok := s.PollReceive()
		require.True(t, ok)
		assert.Equal(t, []byte{byte(i)}, data)
	}
	_, ok := s.PollReceive()
	assert.False(t, ok)
}
