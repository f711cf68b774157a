// Package transport defines the byte-stream contract the frame codec and
// connection consume. Acquiring a concrete transport (opening a serial
// port, obtaining a USB file descriptor) is outside this package's scope;
// see pkg/transport/serialport for one concrete implementation.
package transport

import (
	"errors"
	"time"
)

// ErrTimeout must be returned by ReadFull when it could not fill buf
// within the given timeout. A zero timeout means wait forever.
var ErrTimeout = errors.New("transport: read timed out")

// Transport is any byte stream that supports cancellable reads and
// all-or-nothing writes. A single Transport is owned exclusively by one
// Connection for its lifetime.
type Transport interface {
	// ReadFull reads exactly len(buf) bytes, or returns ErrTimeout if
	// timeout elapses first. A zero timeout blocks indefinitely.
	ReadFull(buf []byte, timeout time.Duration) (int, error)
	// Write writes all of data or returns an error.
	Write(data []byte) error
	// SetBaud switches the underlying line rate; used for the
	// high-to-low baud fallback during handshake.
	SetBaud(baud int) error
	Close() error
}
