package readout

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportident-go/sidriver/pkg/carddef"
	"github.com/sportident-go/sidriver/pkg/conn"
	"github.com/sportident-go/sidriver/pkg/frame"
	"github.com/sportident-go/sidriver/pkg/packet"
	"github.com/sportident-go/sidriver/pkg/transport/mock"
)

func silentLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func blockFrame(t *testing.T, cmd byte, blockNumber byte, data [128]byte) []byte {
	t.Helper()
	payload := append([]byte{0x00, 0x01, blockNumber}, data[:]...)
	b, err := frame.Encode(cmd, payload)
	require.NoError(t, err)
	return b
}

func TestReadOutCard8PersonalDataAndPunches(t *testing.T) {
	const siid = 2100000 // family 8

	block0 := [128]byte{}
	block0[0x19], block0[0x1A], block0[0x1B] = 0x20, 0x0F, 0x60 // siid echo, unused here
	block0[0x20+94], block0[0x20+95] = 0x00, 0x00                // personal data finished
	// An all-empty personal-data window fails to decode, so give it names.
	copy(block0[0x20:], "Jane;Doe;;;;;;;;;")

	block1 := [128]byte{}
	for i := range block1 {
		block1[i] = 0xEE
	}

	in := append(
		blockFrame(t, packet.CmdGetBlockNewer, 0, block0),
		blockFrame(t, packet.CmdGetBlockNewer, 1, block1)...,
	)
	tr := mock.New(in)
	c := conn.NewForTest(tr, silentLogger())

	def, err := ReadOut(c, siid, []carddef.Intent{carddef.IntentPersonalData, carddef.IntentPunches})
	require.NoError(t, err)

	card8, ok := def.(*carddef.Card8)
	require.True(t, ok)
	_, ok = card8.PersonalData()
	assert.True(t, ok)
	punches, ok := card8.Punches()
	assert.True(t, ok)
	assert.Empty(t, punches)
}

func TestReadOutUnsupportedSIID(t *testing.T) {
	tr := mock.New(nil)
	c := conn.NewForTest(tr, silentLogger())
	_, err := ReadOut(c, 999999999, AllIntents())
	assert.Error(t, err)
}
