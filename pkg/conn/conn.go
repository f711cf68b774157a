// Package conn implements the station handshake and the half-duplex
// command/response exchange every higher-level operation (beep, read
// system config, fetch a card block) is built on.
package conn

import (
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sportident-go/sidriver/pkg/frame"
	"github.com/sportident-go/sidriver/pkg/packet"
	"github.com/sportident-go/sidriver/pkg/sysconfig"
	"github.com/sportident-go/sidriver/pkg/transport"
)

const (
	// BaudHigh is the station's normal operating rate.
	BaudHigh = 38400
	// BaudLow is the fallback rate used during the master/slave
	// handshake when a station refuses the high rate (older firmware).
	BaudLow = 4800

	defaultTimeout = 2500 * time.Millisecond
)

// ErrNak is returned when the station answers with a bare NAK byte.
var ErrNak = errors.New("conn: station replied NAK")

// ErrUnexpectedFrame is returned by GetBlock when the response frame is
// neither the requested block command nor a card-removed event. SetMode,
// Beep and GetSystemValue do not check the response's command byte.
var ErrUnexpectedFrame = errors.New("conn: unexpected response frame")

// ErrCardRemoved is returned when the station reports that the card was
// pulled from its antenna field mid read-out.
var ErrCardRemoved = errors.New("conn: card removed during read-out")

// Connection owns a transport for its entire lifetime and serializes all
// command/response exchanges across it. Callers must not share a
// transport between two Connections.
type Connection struct {
	transport transport.Transport
	logger    *logrus.Logger
	timeout   time.Duration
	baud      int

	MsMode byte // packet.ModeMaster or packet.ModeSlave, once negotiated
	System sysconfig.Config
}

// Option configures a Connection at construction time.
type Option func(*Connection)

// WithLogger overrides the default logger.
func WithLogger(l *logrus.Logger) Option {
	return func(c *Connection) { c.logger = l }
}

// WithTimeout overrides the default per-command timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Connection) { c.timeout = d }
}

// Open performs the full startup handshake over tr: wake the line, put
// the station into master mode (retrying at the low baud rate if the
// high rate is refused), and read back the 128-byte system
// configuration block.
func Open(tr transport.Transport, opts ...Option) (*Connection, error) {
	c := &Connection{
		transport: tr,
		logger:    logrus.StandardLogger(),
		timeout:   defaultTimeout,
		baud:      BaudHigh,
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := tr.SetBaud(BaudHigh); err != nil {
		return nil, fmt.Errorf("conn: set baud %d: %w", BaudHigh, err)
	}
	if err := tr.Write([]byte{0xFF}); err != nil {
		return nil, fmt.Errorf("conn: wake byte: %w", err)
	}
	time.Sleep(10 * time.Millisecond)
	if err := tr.Write([]byte{frame.STX}); err != nil {
		return nil, fmt.Errorf("conn: stx: %w", err)
	}

	if err := c.negotiateMasterMode(); err != nil {
		return nil, fmt.Errorf("conn: master mode handshake: %w", err)
	}

	cfgBytes, err := c.GetSystemValue(0x00, 128)
	if err != nil {
		return nil, fmt.Errorf("conn: read system config: %w", err)
	}
	cfg, err := sysconfig.Decode(cfgBytes)
	if err != nil {
		return nil, fmt.Errorf("conn: decode system config: %w", err)
	}
	c.System = cfg

	c.logger.WithFields(logrus.Fields{
		"serial": cfg.SerialNumber,
		"model":  cfg.Model,
		"baud":   c.baud,
	}).Info("connection established")

	return c, nil
}

// negotiateMasterMode tries SetMsMode(Master) at the current baud; if the
// station refuses, it retries once at the low baud rate.
func (c *Connection) negotiateMasterMode() error {
	ok, err := c.SetMode(packet.ModeMaster)
	if err == nil && ok {
		return nil
	}
	c.logger.WithError(err).Warn("master mode refused at high baud, retrying low")

	if err := c.transport.SetBaud(BaudLow); err != nil {
		return fmt.Errorf("set baud %d: %w", BaudLow, err)
	}
	c.baud = BaudLow

	ok, err = c.SetMode(packet.ModeMaster)
	if err != nil {
		return err
	}
	if !ok {
		return errors.New("station refused master mode at both baud rates")
	}
	return nil
}

// SetMode sends SetMsMode and reports whether the station accepted it.
func (c *Connection) SetMode(mode byte) (bool, error) {
	f, err := c.exchange(packet.CmdSetMsMode, packet.EncodeSetMsMode(mode))
	if err != nil {
		return false, err
	}
	resp, err := packet.ParseSetMsModeResponse(f.Cmd, f.Data)
	if err != nil {
		return false, err
	}
	c.MsMode = resp.Mode
	return resp.Mode == mode, nil
}

// Beep asks the station to sound its buzzer count times.
func (c *Connection) Beep(count byte) error {
	_, err := c.exchange(packet.CmdBeep, packet.EncodeBeep(count))
	return err
}

// GetSystemValue reads length bytes of station memory starting at addr.
func (c *Connection) GetSystemValue(addr, length byte) ([]byte, error) {
	f, err := c.exchange(packet.CmdGetSystemValue, packet.EncodeGetSystemValue(addr, length))
	if err != nil {
		return nil, err
	}
	resp, err := packet.ParseSystemValueResponse(f.Cmd, f.Data)
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// GetBlock reads one 128-byte card memory block using the given command
// variant (packet.CmdGetBlockNewer/Family6/Family5).
func (c *Connection) GetBlock(cmd byte, blockNumber byte) (packet.BlockResponse, error) {
	f, err := c.exchange(cmd, packet.EncodeGetBlock(blockNumber))
	if err != nil {
		return packet.BlockResponse{}, err
	}
	if f.Cmd == packet.CmdSICardRemoved {
		return packet.BlockResponse{}, ErrCardRemoved
	}
	if f.Cmd != cmd {
		return packet.BlockResponse{}, fmt.Errorf("%w: got %#02x, want %#02x", ErrUnexpectedFrame, f.Cmd, cmd)
	}
	return packet.ParseBlockResponse(f.Cmd, f.Data)
}

// WaitForCard blocks (with no timeout) until a card-inserted event
// arrives and returns its SIID.
func (c *Connection) WaitForCard() (uint32, error) {
	for {
		f, err := frame.Decode(c.transport, 0, c.timeout)
		if err != nil {
			return 0, err
		}
		if f.Nak {
			continue
		}
		switch f.Cmd {
		case packet.CmdSICardNewerDetected, packet.CmdSICard6Detected, packet.CmdSICard5Detected:
			evt, err := packet.ParseCardDetected(f.Cmd, f.Data)
			if err != nil {
				return 0, err
			}
			return evt.SIID, nil
		default:
			c.logger.WithField("cmd", fmt.Sprintf("%#02x", f.Cmd)).Debug("ignoring frame while waiting for card")
		}
	}
}

// Send writes a command frame without waiting for a response.
func (c *Connection) Send(cmd byte, data []byte) error {
	encoded, err := frame.Encode(cmd, data)
	if err != nil {
		return err
	}
	c.logger.WithFields(logrus.Fields{"cmd": fmt.Sprintf("%#02x", cmd)}).Debug("send")
	return c.transport.Write(encoded)
}

// Receive reads the next frame, bounded by the connection's default
// timeout.
func (c *Connection) Receive() (frame.Frame, error) {
	f, err := frame.Decode(c.transport, c.timeout, c.timeout)
	if err != nil {
		return frame.Frame{}, err
	}
	c.logger.WithFields(logrus.Fields{"cmd": fmt.Sprintf("%#02x", f.Cmd), "nak": f.Nak}).Debug("recv")
	return f, nil
}

// exchange sends cmd/data and returns the next response frame; a NAK
// reply is reported as ErrNak.
func (c *Connection) exchange(cmd byte, data []byte) (frame.Frame, error) {
	if err := c.Send(cmd, data); err != nil {
		return frame.Frame{}, err
	}
	f, err := c.Receive()
	if err != nil {
		return frame.Frame{}, err
	}
	if f.Nak {
		return frame.Frame{}, ErrNak
	}
	return f, nil
}

// Close releases the underlying transport.
func (c *Connection) Close() error { return c.transport.Close() }

// NewForTest builds a Connection around an already-open transport,
// skipping the startup handshake. Exported for use by other packages'
// tests (readout) that need a Connection without driving
// the full wake/negotiate/system-config sequence.
func NewForTest(tr transport.Transport, logger *logrus.Logger) *Connection {
	return &Connection{transport: tr, logger: logger, timeout: defaultTimeout}
}
