package conn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sportident-go/sidriver/pkg/frame"
	"github.com/sportident-go/sidriver/pkg/packet"
	"github.com/sportident-go/sidriver/pkg/sysconfig"
	"github.com/sportident-go/sidriver/pkg/transport/mock"
)

func validSystemConfigBytes() []byte {
	data := make([]byte, 128)
	data[0x00], data[0x01], data[0x02], data[0x03] = 0x00, 0x01, 0xE2, 0x40
	copy(data[0x05:0x08], []byte("654"))
	data[0x08], data[0x09], data[0x0A] = 24, 3, 15
	data[0x0B], data[0x0C] = byte(sysconfig.ModelBsm8>>8), byte(sysconfig.ModelBsm8&0xFF)
	data[0x0D] = 128
	data[0x75], data[0x76], data[0x77] = 24, 6, 1
	return data
}

func encodeFrame(t *testing.T, cmd byte, data []byte) []byte {
	t.Helper()
	b, err := frame.Encode(cmd, data)
	require.NoError(t, err)
	return b
}

func TestOpenHandshake(t *testing.T) {
	setModeResp := encodeFrame(t, packet.CmdSetMsMode, packet.EncodeSetMsMode(packet.ModeMaster))

	sysValData := append([]byte{0x00, 0x01, 0x00}, validSystemConfigBytes()...)
	sysValResp := encodeFrame(t, packet.CmdGetSystemValue, sysValData)

	in := append(append([]byte{}, setModeResp...), sysValResp...)
	tr := mock.New(in)

	c, err := Open(tr)
	require.NoError(t, err)
	assert.Equal(t, BaudHigh, tr.Baud)
	assert.EqualValues(t, packet.ModeMaster, c.MsMode)
	assert.EqualValues(t, 123456, c.System.SerialNumber)

	// Wake byte + STX + SetMsMode frame + GetSystemValue frame were sent.
	assert.Contains(t, string(tr.Written), string([]byte{0xFF}))
}

func TestOpenFallsBackToLowBaud(t *testing.T) {
	// First SetMsMode attempt: station replies NAK (refuses high baud).
	// Second attempt (after low-baud retry): accepted.
	setModeResp := encodeFrame(t, packet.CmdSetMsMode, packet.EncodeSetMsMode(packet.ModeMaster))
	in := append([]byte{frame.NAK}, setModeResp...)
	sysValData := append([]byte{0x00, 0x01, 0x00}, validSystemConfigBytes()...)
	in = append(in, encodeFrame(t, packet.CmdGetSystemValue, sysValData)...)

	tr := mock.New(in)
	c, err := Open(tr)
	require.NoError(t, err)
	assert.Equal(t, BaudLow, tr.Baud)
	assert.EqualValues(t, packet.ModeMaster, c.MsMode)
}

func TestBeepSendsExpectedFrame(t *testing.T) {
	resp := encodeFrame(t, packet.CmdBeep, []byte{0x03})
	tr := mock.New(resp)
	c := &Connection{transport: tr, logger: testLogger(), timeout: 0}
	require.NoError(t, c.Beep(3))
	want := encodeFrame(t, packet.CmdBeep, []byte{0x03})
	assert.Equal(t, want, tr.Written)
}

func TestWaitForCardIgnoresUnrelatedFrames(t *testing.T) {
	noise := encodeFrame(t, packet.CmdBeep, []byte{0x01})
	detected := encodeFrame(t, packet.CmdSICardNewerDetected, []byte{0x00, 0x01, 0x00, 0x00, 0x01, 0x86})
	tr := mock.New(append(noise, detected...))
	c := &Connection{transport: tr, logger: testLogger(), timeout: 0}
	siid, err := c.WaitForCard()
	require.NoError(t, err)
	assert.EqualValues(t, 390, siid)
}
