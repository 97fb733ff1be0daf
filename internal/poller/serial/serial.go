// internal/poller/serial/serial.go
package serial

import (
	"errors"
	"fmt"
	"io"
	"time"
)

// Driver names accepted in configuration.
const (
	DriverGoburrow = "goburrow"
	DriverBugst    = "bugst"
)

const (
	DefaultBaudRate    = 19200
	DefaultReadTimeout = 10 * time.Millisecond
)

// Config describes one serial line. Framing is fixed at 8N1.
type Config struct {
	Port        string
	Driver      string
	BaudRate    int
	ReadTimeout time.Duration
}

// port is what a driver hands back: a blocking reader with a short timeout.
// A read that times out reports (0, nil) or an error for which isTimeout
// returns true.
type port interface {
	io.ReadWriteCloser
}

type driver struct {
	open      func(cfg Config) (port, error)
	isTimeout func(err error) bool
}

var drivers = map[string]driver{
	DriverGoburrow: {open: openGoburrow, isTimeout: goburrowTimeout},
	DriverBugst:    {open: openBugst, isTimeout: func(error) bool { return false }},
}

// KnownDriver reports whether name selects a supported driver.
func KnownDriver(name string) bool {
	_, ok := drivers[name]
	return ok
}

// Channel adapts a serial port to young32400.ByteChannel.
// Available performs at most one short read when nothing is buffered.
type Channel struct {
	p         port
	isTimeout func(error) bool

	buf     [64]byte
	pending []byte
	err     error
}

// Open opens and configures the port.
func Open(cfg Config) (*Channel, error) {
	if cfg.Port == "" {
		return nil, errors.New("serial: port required")
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverGoburrow
	}
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}

	d, ok := drivers[cfg.Driver]
	if !ok {
		return nil, fmt.Errorf("serial: unknown driver %q", cfg.Driver)
	}

	p, err := d.open(cfg)
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", cfg.Port, err)
	}
	return newChannel(p, d.isTimeout), nil
}

func newChannel(p port, isTimeout func(error) bool) *Channel {
	return &Channel{p: p, isTimeout: isTimeout}
}

// Available reports buffered bytes. A retained read error counts as one
// readable byte so the next ReadByte returns it.
func (c *Channel) Available() int {
	if len(c.pending) == 0 && c.err == nil {
		n, err := c.p.Read(c.buf[:])
		if n > 0 {
			c.pending = append(c.pending, c.buf[:n]...)
		}
		if err != nil && !c.isTimeout(err) {
			c.err = err
		}
	}
	if len(c.pending) == 0 && c.err != nil {
		return 1
	}
	return len(c.pending)
}

// ReadByte returns buffered data first, then any retained read error.
func (c *Channel) ReadByte() (byte, error) {
	if len(c.pending) == 0 {
		if c.err != nil {
			err := c.err
			c.err = nil
			return 0, err
		}
		return 0, io.ErrNoProgress
	}
	b := c.pending[0]
	c.pending = c.pending[1:]
	return b, nil
}

func (c *Channel) Write(p []byte) (int, error) {
	if c.err != nil {
		err := c.err
		c.err = nil
		return 0, err
	}
	return c.p.Write(p)
}

// Err reports a read error not yet consumed by ReadByte or Write.
func (c *Channel) Err() error { return c.err }

func (c *Channel) Close() error {
	if c == nil || c.p == nil {
		return nil
	}
	return c.p.Close()
}
