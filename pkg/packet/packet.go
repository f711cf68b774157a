// Package packet provides typed encoders and decoders for the command and
// response bytes carried inside pkg/frame.Frame. Nothing here touches a
// transport directly; callers encode a command to bytes, hand them to the
// frame codec, and decode whatever frame comes back.
package packet

import (
	"fmt"
)

// Command bytes in scope.
const (
	CmdSetMsMode       = 0xF0
	CmdBeep            = 0xF9
	CmdGetSystemValue  = 0x83
	CmdGetBlockNewer   = 0xEF
	CmdGetBlockFamily6 = 0xE1
	CmdGetBlockFamily5 = 0xB1
	CmdSetBaudrate     = 0xFE
)

// Event/response-only command bytes.
const (
	CmdSICardNewerDetected = 0xE8
	CmdSICard6Detected     = 0xE6
	CmdSICard5Detected     = 0xE5
	CmdSICardRemoved       = 0xE7
)

// Mode bytes for SetMsMode.
const (
	ModeMaster = 0x4D
	ModeSlave  = 0x53
)

// EncodeSetMsMode builds the data section of a "set master/slave mode"
// command.
func EncodeSetMsMode(mode byte) []byte { return []byte{mode} }

// EncodeBeep builds the data section of a "beep N times" command.
func EncodeBeep(count byte) []byte { return []byte{count} }

// EncodeGetSystemValue builds the data section of a "read system memory"
// command: addr is the starting byte offset, length the number of bytes.
func EncodeGetSystemValue(addr, length byte) []byte { return []byte{addr, length} }

// EncodeGetBlock builds the data section of a "read card block" command
// (the command byte itself selects which family variant is used).
func EncodeGetBlock(blockNumber byte) []byte { return []byte{blockNumber} }

// EncodeSetBaudrate builds the data section of a "switch baud rate"
// command.
func EncodeSetBaudrate(rate byte) []byte { return []byte{rate} }

// UnexpectedCmdError is returned by ParseCardRemoved when the frame is not
// a SICardRemoved event. The other Parse functions do not check the
// command byte they are given.
type UnexpectedCmdError struct {
	Want, Got byte
}

func (e *UnexpectedCmdError) Error() string {
	return fmt.Sprintf("packet: unexpected command %#02x, want %#02x", e.Got, e.Want)
}

// WrongLengthError is returned when a decoded frame's data section has an
// unexpected length for the command it claims to be.
type WrongLengthError struct {
	Cmd       byte
	Want, Got int
}

func (e *WrongLengthError) Error() string {
	return fmt.Sprintf("packet: cmd %#02x data length %d, want %d", e.Cmd, e.Got, e.Want)
}

func checkLen(cmd byte, data []byte, want int) error {
	if len(data) != want {
		return &WrongLengthError{Cmd: cmd, Want: want, Got: len(data)}
	}
	return nil
}

// SetMsModeResponse is the one-byte echo of the mode that was accepted.
type SetMsModeResponse struct{ Mode byte }

// ParseSetMsModeResponse decodes a SetMsMode acknowledgement frame.
func ParseSetMsModeResponse(cmd byte, data []byte) (SetMsModeResponse, error) {
	if err := checkLen(cmd, data, 1); err != nil {
		return SetMsModeResponse{}, err
	}
	return SetMsModeResponse{Mode: data[0]}, nil
}

// SystemValueResponse carries the bytes read out of station memory by
// GetSystemValue.
type SystemValueResponse struct {
	StationCode uint16
	Address     byte
	Data        []byte
}

// ParseSystemValueResponse decodes a GetSystemValue response: 2-byte
// station code, 1-byte start address, then the requested data.
func ParseSystemValueResponse(cmd byte, data []byte) (SystemValueResponse, error) {
	if len(data) < 3 {
		return SystemValueResponse{}, &WrongLengthError{Cmd: cmd, Want: 3, Got: len(data)}
	}
	return SystemValueResponse{
		StationCode: uint16(data[0])<<8 | uint16(data[1]),
		Address:     data[2],
		Data:        data[3:],
	}, nil
}

// BlockResponse carries one 128-byte card memory block, as returned by
// any of the GetBlock command variants.
type BlockResponse struct {
	StationCode uint16
	BlockNumber byte
	Data        [128]byte
}

// ParseBlockResponse decodes a 131-byte GetBlock response: 2-byte station
// code, 1-byte block number, 128 bytes of card data.
func ParseBlockResponse(cmd byte, data []byte) (BlockResponse, error) {
	if err := checkLen(cmd, data, 131); err != nil {
		return BlockResponse{}, err
	}
	var resp BlockResponse
	resp.StationCode = uint16(data[0])<<8 | uint16(data[1])
	resp.BlockNumber = data[2]
	copy(resp.Data[:], data[3:])
	return resp, nil
}

// CardDetected is emitted by the station when a card is placed in its
// antenna field: family-9/10/11/active cards arrive as SICardNewerDetected,
// family 6 as SICard6Detected, family 5 as SICard5Detected.
type CardDetected struct {
	StationCode uint16
	SIID        uint32
}

// ParseCardDetected decodes a 6-byte card-inserted event: 2-byte station
// code, 1 discarded mode byte, then a 3-byte big-endian SIID.
func ParseCardDetected(cmd byte, data []byte) (CardDetected, error) {
	if err := checkLen(cmd, data, 6); err != nil {
		return CardDetected{}, err
	}
	return CardDetected{
		StationCode: uint16(data[0])<<8 | uint16(data[1]),
		SIID:        uint32(data[3])<<16 | uint32(data[4])<<8 | uint32(data[5]),
	}, nil
}

// CardRemoved is emitted when a card is pulled from the antenna field
// before or during a block-fetch sequence.
type CardRemoved struct{}

// ParseCardRemoved validates a SICardRemoved event frame.
func ParseCardRemoved(cmd byte, data []byte) (CardRemoved, error) {
	if cmd != CmdSICardRemoved {
		return CardRemoved{}, &UnexpectedCmdError{Want: CmdSICardRemoved, Got: cmd}
	}
	return CardRemoved{}, nil
}
