package punch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportident-go/sidriver/pkg/sitime"
)

func TestDecodeControlEmpty(t *testing.T) {
	p, err := DecodeControl([4]byte{0xEE, 0xEE, 0xEE, 0xEE})
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestDecodeDataCleared(t *testing.T) {
	_, err := Decode([4]byte{0xFF, 0xFF, 0xFF, 0xFF})
	assert.ErrorIs(t, err, ErrDataCleared)
}

func TestDecodeExample(t *testing.T) {
	p, err := Decode([4]byte{0x02, 0x1F, 0x0E, 0x10})
	require.NoError(t, err)
	assert.EqualValues(t, 0x1F, p.StationCode)
	assert.Equal(t, 3600, p.Seconds)
	assert.Equal(t, sitime.Monday, p.Day)
	assert.Equal(t, sitime.Week1, p.Week)
}

func TestStationCodeRoundTrip(t *testing.T) {
	for code := 0; code < 1024; code++ {
		p := Punch{StationCode: code, Seconds: 3600, Day: sitime.Wednesday, Week: sitime.Week2}
		got, err := Decode(Encode(p))
		require.NoErrorf(t, err, "code %d", code)
		assert.Equalf(t, code, got.StationCode, "code %d round trip", code)
	}
}
