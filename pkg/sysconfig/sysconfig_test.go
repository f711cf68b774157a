package sysconfig

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeConfigBytes() []byte {
	data := make([]byte, 128)
	// Serial number 0x0001E240 = 123456
	data[0x00], data[0x01], data[0x02], data[0x03] = 0x00, 0x01, 0xE2, 0x40
	data[0x04] = byte(SrrChannelRed)
	copy(data[0x05:0x08], []byte("654"))
	data[0x08], data[0x09], data[0x0A] = 24, 3, 15 // 2024-03-15
	data[0x0B], data[0x0C] = byte(ModelBsm8>>8), byte(ModelBsm8&0xFF)
	data[0x0D] = 128
	data[0x75], data[0x76], data[0x77] = 24, 6, 1 // 2024-06-01
	return data
}

func TestDecode(t *testing.T) {
	cfg, err := Decode(makeConfigBytes())
	require.NoError(t, err)
	assert.EqualValues(t, 123456, cfg.SerialNumber)
	assert.Equal(t, ModelBsm8, cfg.Model)
	assert.Equal(t, "654", cfg.Firmware.String())

	n, err := cfg.Firmware.Number()
	require.NoError(t, err)
	assert.EqualValues(t, 654, n)

	assert.Equal(t, "2024-03-15", cfg.Produced.String())
	assert.Equal(t, "2024-06-01", cfg.LastModification.String())
	assert.EqualValues(t, 128, cfg.MemoryKB)
}

func TestDecodeSimSrrUses3ByteSerial(t *testing.T) {
	data := makeConfigBytes()
	data[0x0B], data[0x0C] = byte(ModelSimSrr>>8), byte(ModelSimSrr&0xFF)
	data[0x01], data[0x02], data[0x03] = 0x01, 0x02, 0x03
	cfg, err := Decode(data)
	require.NoError(t, err)
	assert.EqualValues(t, 0x010203, cfg.SerialNumber)
}

func TestDecodeShortBuffer(t *testing.T) {
	_, err := Decode(make([]byte, 10))
	assert.Error(t, err)
}

func TestDecodeInvalidDate(t *testing.T) {
	data := makeConfigBytes()
	data[0x08], data[0x09], data[0x0A] = 24, 13, 40 // invalid month/day
	_, err := Decode(data)
	assert.Error(t, err)
}

func TestDecodeUnknownModel(t *testing.T) {
	data := makeConfigBytes()
	data[0x0B], data[0x0C] = 0xFF, 0xFF // no station variant uses this code
	_, err := Decode(data)
	require.ErrorIs(t, err, ErrUnknownModel)
}
