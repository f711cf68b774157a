// Package mock provides an in-memory transport.Transport for tests: a
// fixed byte buffer to read from and a buffer to capture writes.
package mock

import (
	"time"

	"github.com/sportident-go/sidriver/pkg/transport"
)

// Transport replays a canned byte sequence and records everything
// written to it. Reads past the end of the canned sequence return
// transport.ErrTimeout; when ExhaustedAfter is set, so do reads past that
// many bytes. The timeout argument itself is ignored.
type Transport struct {
	in             []byte
	pos            int
	Written        []byte
	ExhaustedAfter int // 0 = never exhausted
	Baud           int
}

var _ transport.Transport = (*Transport)(nil)

// New creates a mock transport that will yield in, byte by byte, to any
// caller of ReadFull.
func New(in []byte) *Transport {
	return &Transport{in: in}
}

func (m *Transport) ReadFull(buf []byte, timeout time.Duration) (int, error) {
	for i := range buf {
		if m.pos >= len(m.in) {
			return i, transport.ErrTimeout
		}
		if m.ExhaustedAfter > 0 && m.pos >= m.ExhaustedAfter {
			return i, transport.ErrTimeout
		}
		buf[i] = m.in[m.pos]
		m.pos++
	}
	return len(buf), nil
}

func (m *Transport) Write(data []byte) error {
	m.Written = append(m.Written, data...)
	return nil
}

func (m *Transport) SetBaud(baud int) error {
	m.Baud = baud
	return nil
}

func (m *Transport) Close() error { return nil }
