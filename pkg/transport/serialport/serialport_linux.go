//go:build linux

// Package serialport adapts github.com/daedaluz/goserial's ioctl-based
// Linux serial port into a pkg/transport.Transport: open at one of the
// codec's two candidate baud rates, 8 data bits, no parity, 1 stop bit,
// no flow control.
package serialport

import (
	"fmt"
	"time"

	serial "github.com/daedaluz/goserial"

	"github.com/sportident-go/sidriver/pkg/transport"
)

var bauds = map[int]serial.CFlag{
	4800:  serial.B4800,
	9600:  serial.B9600,
	19200: serial.B19200,
	38400: serial.B38400,
}

// Port is a concrete transport.Transport backed by an open Linux tty.
type Port struct {
	port *serial.Port
}

var _ transport.Transport = (*Port)(nil)

// Open opens name (e.g. "/dev/ttyUSB0") at the given baud rate, raw mode,
// 8-N-1, no flow control.
func Open(name string, baud int) (*Port, error) {
	port, err := serial.Open(name, serial.NewOptions().SetReadTimeout(0))
	if err != nil {
		return nil, fmt.Errorf("serialport: open %s: %w", name, err)
	}
	p := &Port{port: port}
	if err := p.SetBaud(baud); err != nil {
		port.Close()
		return nil, err
	}
	return p, nil
}

// SetBaud reconfigures the line rate without closing the port, used for
// the station's high/low baud fallback during the master-mode handshake.
func (p *Port) SetBaud(baud int) error {
	cflag, ok := bauds[baud]
	if !ok {
		return fmt.Errorf("serialport: unsupported baud rate %d", baud)
	}

	attrs, err := p.port.GetAttr()
	if err != nil {
		return fmt.Errorf("serialport: get attrs: %w", err)
	}
	attrs.MakeRaw()
	attrs.SetSpeed(cflag)
	attrs.Cflag |= serial.CS8
	attrs.Cflag &^= serial.PARENB | serial.CSTOPB | serial.CRTSCTS

	if err := p.port.SetAttr(serial.TCSANOW, attrs); err != nil {
		return fmt.Errorf("serialport: set attrs: %w", err)
	}
	return nil
}

// ReadFull reads exactly len(buf) bytes or returns transport.ErrTimeout.
// A zero timeout blocks indefinitely.
func (p *Port) ReadFull(buf []byte, timeout time.Duration) (int, error) {
	deadline := time.Time{}
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}

	read := 0
	for read < len(buf) {
		remaining := time.Duration(0)
		if timeout > 0 {
			remaining = time.Until(deadline)
			if remaining <= 0 {
				return read, transport.ErrTimeout
			}
		}

		n, err := p.port.ReadTimeout(buf[read:], remaining)
		if err != nil {
			return read, fmt.Errorf("serialport: read: %w", err)
		}
		if n == 0 {
			return read, transport.ErrTimeout
		}
		read += n
	}
	return read, nil
}

// Write writes all of data.
func (p *Port) Write(data []byte) error {
	n, err := p.port.Write(data)
	if err != nil {
		return fmt.Errorf("serialport: write: %w", err)
	}
	if n != len(data) {
		return fmt.Errorf("serialport: short write (%d of %d bytes)", n, len(data))
	}
	return nil
}

// Close releases the underlying file descriptor.
func (p *Port) Close() error { return p.port.Close() }
