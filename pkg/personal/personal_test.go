package personal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func deref(s *string) string {
	if s == nil {
		return "<nil>"
	}
	return *s
}

func TestDecodeSemicolonWitness(t *testing.T) {
	raw := []byte("Jane;Doe;F;19900101;OK Orienteering;jane@example.com;+491234;Berlin;Mainstr 1;10115;Germany")
	d, err := DecodeSemicolon(raw)
	require.NoError(t, err)

	assert.Equal(t, "Jane", deref(d.FirstName))
	assert.Equal(t, "Doe", deref(d.LastName))
	assert.Equal(t, "F", deref(d.Gender))
	assert.Equal(t, "19900101", deref(d.Birthdate))
	assert.Equal(t, "OK Orienteering", deref(d.Club))
	assert.Equal(t, "jane@example.com", deref(d.Email))
	assert.Equal(t, "+491234", deref(d.Phone))
	assert.Equal(t, "Berlin", deref(d.City))
	assert.Equal(t, "Mainstr 1", deref(d.Street))
	assert.Equal(t, "10115", deref(d.Zipcode))
	assert.Equal(t, "Germany", deref(d.Country))
}

func TestDecodeSemicolonTrimsEveryCell(t *testing.T) {
	raw := []byte(" Jane ; Doe ;F; 19900101 ;  ; jane@example.com ;;;;; ")
	d, err := DecodeSemicolon(raw)
	require.NoError(t, err)

	assert.Equal(t, "Jane", deref(d.FirstName))
	assert.Equal(t, "Doe", deref(d.LastName))
	assert.Equal(t, "19900101", deref(d.Birthdate))
	assert.Nil(t, d.Club, "whitespace-only cell must decode as absent, not \" \"")
	assert.Equal(t, "jane@example.com", deref(d.Email))
	assert.Nil(t, d.Phone)
	assert.Nil(t, d.City)
	assert.Nil(t, d.Street)
	assert.Nil(t, d.Zipcode)
	assert.Nil(t, d.Country)
}

func TestDecodeSemicolonBlanksGarbageFirstCell(t *testing.T) {
	raw := append([]byte{0xEE, 0xEE}, []byte(";Doe;F;;;;;;;;")...)
	d, err := DecodeSemicolon(raw)
	require.NoError(t, err)
	assert.Nil(t, d.FirstName)
	assert.Equal(t, "Doe", deref(d.LastName))
}

func TestDecodeSemicolonBlanksGarbageGender(t *testing.T) {
	raw := append([]byte("Jane;Doe;"), append([]byte{0xEE}, []byte(";;;;;;;;")...)...)
	d, err := DecodeSemicolon(raw)
	require.NoError(t, err)
	assert.Nil(t, d.Gender)
}

func TestDecodeSemicolonRequiredFieldsEmpty(t *testing.T) {
	_, err := DecodeSemicolon([]byte{0xEE, 0xEE})
	assert.ErrorIs(t, err, ErrRequiredFieldsEmpty)
}

func TestDecodeSemicolonTruncatesAfterEleventhField(t *testing.T) {
	raw := []byte("Jane;Doe;F;;;;;;;;Germany;ignored-trailing-garbage")
	d, err := DecodeSemicolon(raw)
	require.NoError(t, err)
	assert.Equal(t, "Germany", deref(d.Country))
}

func TestDecodeSemicolonTooLong(t *testing.T) {
	raw := make([]byte, 105)
	_, err := DecodeSemicolon(raw)
	assert.ErrorIs(t, err, ErrDataTooLong)
}

func TestDecodeFixed(t *testing.T) {
	var window [204]byte
	for i := range window {
		window[i] = ' '
	}
	copy(window[0x00:0x14], "Doe")
	copy(window[0x14:0x28], "Jane")
	copy(window[0xC0:0xC4], "F")

	d := DecodeFixed(window)
	assert.Equal(t, "Doe", deref(d.LastName))
	assert.Equal(t, "Jane", deref(d.FirstName))
	assert.Equal(t, "F", deref(d.Gender))
	assert.Nil(t, d.Club)
}
