package cardtype

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromSIIDWitnesses(t *testing.T) {
	cases := []struct {
		siid uint32
		want Type
	}{
		{1, Card5},
		{2000001, Card8},
		{8000000, ActiveCard},
		{9500000, Card11},
		{14500000, FCard},
	}
	for _, c := range cases {
		got, ok := FromSIID(c.siid)
		assert.Truef(t, ok, "siid %d: no card type found", c.siid)
		assert.Equalf(t, c.want, got, "siid %d", c.siid)
	}
}

func TestFromSIIDUnknown(t *testing.T) {
	_, ok := FromSIID(99999999)
	assert.False(t, ok)
}
