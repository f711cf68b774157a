package crc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCRC16Vector(t *testing.T) {
	data := []byte{0x53, 0x00, 0x05, 0x01, 0x0F, 0xB5, 0x00, 0x00, 0x1E, 0x08}
	assert.EqualValues(t, 0x2C12, CRC16(data))
}

func TestCRC16ShortInput(t *testing.T) {
	assert.EqualValues(t, 0, CRC16(nil))
	assert.EqualValues(t, 0, CRC16([]byte{0x01}))
}

func TestCRC16SetMsModeFrame(t *testing.T) {
	// SetMsMode(Master): CMD=0xF0, LEN=0x01, DATA=0x4D
	assert.NotZero(t, CRC16([]byte{0xF0, 0x01, 0x4D}))
}
