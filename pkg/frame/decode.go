package frame

import (
	"time"

	"github.com/sportident-go/sidriver/internal/crc"
	"github.com/sportident-go/sidriver/pkg/transport"
)

// Decode reads one frame from r. stxTimeout bounds the wait for the start
// byte; byteTimeout bounds every subsequent byte. Either may be zero
// (infinite).
func Decode(r transport.Transport, stxTimeout, byteTimeout time.Duration) (Frame, error) {
	var buf [1]byte

	// WAITING_FOR_START
	for {
		if _, err := r.ReadFull(buf[:], stxTimeout); err != nil {
			return Frame{}, wrapReadErr(err)
		}
		switch buf[0] {
		case STX:
		case NAK:
			return Frame{Nak: true}, nil
		default:
			continue
		}
		break
	}

	// READING_HEADER: CMD byte
	if _, err := r.ReadFull(buf[:], byteTimeout); err != nil {
		return Frame{}, wrapReadErr(err)
	}
	cmd := buf[0]

	if !IsExtended(cmd) {
		data, err := readBaseData(r, byteTimeout)
		if err != nil {
			return Frame{}, err
		}
		return Frame{Cmd: cmd, Data: data}, nil
	}

	// LEN byte
	if _, err := r.ReadFull(buf[:], byteTimeout); err != nil {
		return Frame{}, wrapReadErr(err)
	}
	length := int(buf[0])

	// READING_DATA(LEN)
	data := make([]byte, length)
	if length > 0 {
		if _, err := r.ReadFull(data, byteTimeout); err != nil {
			return Frame{}, wrapReadErr(err)
		}
	}

	// READING_CRC
	var crcBuf [2]byte
	if _, err := r.ReadFull(crcBuf[:], byteTimeout); err != nil {
		return Frame{}, wrapReadErr(err)
	}
	wantCRC := uint16(crcBuf[0])<<8 | uint16(crcBuf[1])

	body := make([]byte, 0, 2+length)
	body = append(body, cmd, byte(length))
	body = append(body, data...)
	gotCRC := crc.CRC16(body)
	if gotCRC != wantCRC {
		return Frame{}, &CRCMismatchError{Want: wantCRC, Got: gotCRC}
	}

	// WAITING_FOR_ETX
	if _, err := r.ReadFull(buf[:], byteTimeout); err != nil {
		return Frame{}, wrapReadErr(err)
	}
	if buf[0] != ETX {
		return Frame{}, &ParseError{Reason: "expected ETX after CRC"}
	}

	return Frame{Cmd: cmd, Data: data}, nil
}

// readBaseData reads a base-protocol frame's data section up to the
// literal ETX terminator (no DLE-unescape).
func readBaseData(r transport.Transport, byteTimeout time.Duration) ([]byte, error) {
	var data []byte
	var buf [1]byte
	for {
		if _, err := r.ReadFull(buf[:], byteTimeout); err != nil {
			return nil, wrapReadErr(err)
		}
		if buf[0] == ETX {
			return data, nil
		}
		data = append(data, buf[0])
	}
}

func wrapReadErr(err error) error {
	if err == transport.ErrTimeout {
		return ErrTimedOut
	}
	return &ParseError{Reason: err.Error()}
}
