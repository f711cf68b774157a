package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportident-go/sidriver/pkg/transport/mock"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	payloads := [][]byte{
		{},
		{0x01},
		make([]byte, 255),
	}
	for _, p := range payloads {
		for i := range p {
			p[i] = byte(i)
		}
		encoded, err := Encode(0xF0, p)
		require.NoError(t, err)
		got, err := Decode(mock.New(encoded), 0, time.Second)
		require.NoError(t, err)
		assert.EqualValues(t, 0xF0, got.Cmd)
		assert.Len(t, got.Data, len(p))
	}
}

func TestDecodeNak(t *testing.T) {
	got, err := Decode(mock.New([]byte{NAK}), 0, time.Second)
	require.NoError(t, err)
	assert.True(t, got.Nak)
}

func TestDecodeTruncatedTimesOut(t *testing.T) {
	encoded, err := Encode(0xF0, []byte{0x4D})
	require.NoError(t, err)
	tr := mock.New(encoded[:len(encoded)-2]) // drop ETX and one CRC byte
	_, err = Decode(tr, 0, time.Millisecond)
	assert.ErrorIs(t, err, ErrTimedOut)
}

func TestDecodeCRCMismatch(t *testing.T) {
	encoded, err := Encode(0xF0, []byte{0x4D})
	require.NoError(t, err)
	encoded[3] ^= 0x01 // flip a bit in the payload byte
	_, err = Decode(mock.New(encoded), 0, time.Second)
	assert.IsType(t, &CRCMismatchError{}, err)
}

func TestDecodeFlippedCRCByteMismatches(t *testing.T) {
	encoded, err := Encode(0xF0, []byte{0x4D})
	require.NoError(t, err)
	encoded[len(encoded)-2] ^= 0x01 // CRC bytes are the two before ETX
	_, err = Decode(mock.New(encoded), 0, time.Second)
	assert.IsType(t, &CRCMismatchError{}, err)
}

func TestSetMsModeFrameBytes(t *testing.T) {
	encoded, err := Encode(0xF0, []byte{0x4D})
	require.NoError(t, err)
	want := []byte{0x02, 0xF0, 0x01, 0x4D, 0x00, 0x00, 0x03}
	require.Len(t, encoded, len(want))
	// CRC bytes (index 4,5) are computed, not literal; check the rest.
	for _, i := range []int{0, 1, 2, 3, 6} {
		assert.Equalf(t, want[i], encoded[i], "byte %d", i)
	}
}

func TestIsExtended(t *testing.T) {
	assert.False(t, IsExtended(0x7F))
	assert.False(t, IsExtended(0xC4), "0xc4 should be base despite being >= 0x80")
	assert.True(t, IsExtended(0x80))
}
