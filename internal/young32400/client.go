// internal/young32400/client.go
package young32400

import "time"

const (
	// DefaultAddress is the factory address of a 32400.
	DefaultAddress byte = '0'
	// DefaultTimeout bounds one poll when SetTimeout was never called.
	DefaultTimeout = 1000 * time.Millisecond
)

// ValidAddress reports whether b is a 32400 address ('0'-'9', 'A'-'F').
func ValidAddress(b byte) bool {
	return isDigit(b) || (b >= 'A' && b <= 'F')
}

// Client drives the poll/response exchange with one interface box.
// It is not safe for concurrent use.
type Client struct {
	ch      ByteChannel
	clock   Clock
	address byte
	timeout time.Duration

	m         Measurements
	dataValid bool
	lastErr   *Error
}

type Option func(*Client)

// WithClock replaces the system clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(cl *Client) { cl.clock = c }
}

// New creates a client for the box at addr. No I/O is performed.
func New(ch ByteChannel, addr byte, opts ...Option) *Client {
	c := &Client{
		ch:      ch,
		address: addr,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.clock == nil {
		c.clock = NewSystemClock()
	}
	return c
}

// Address returns the box address sent in each request.
func (c *Client) Address() byte { return c.address }

// SetTimeout takes effect on the next Poll.
func (c *Client) SetTimeout(d time.Duration) { c.timeout = d }

// Timeout returns the per-poll response deadline.
func (c *Client) Timeout() time.Duration { return c.timeout }

// Poll sends one request and waits for the matching response.
//
// On success the measurement set is replaced and DataValid reports true.
// On failure the previous measurements are kept, DataValid reports false
// for parse failures, and LastError holds the reason.
// There are no retries.
func (c *Client) Poll() error {
	c.lastErr = nil

	for c.ch.Available() > 0 {
		if _, err := c.ch.ReadByte(); err != nil {
			return c.fail(&Error{Reason: ReasonTransport, Err: err})
		}
	}

	req := [3]byte{'M', c.address, '!'}
	if _, err := c.ch.Write(req[:]); err != nil {
		return c.fail(&Error{Reason: ReasonTransport, Err: err})
	}

	start := c.clock.Now()
	f := newFramer()

	for c.clock.Now()-start < c.timeout {
		if c.ch.Available() == 0 {
			continue
		}
		b, err := c.ch.ReadByte()
		if err != nil {
			return c.fail(&Error{Reason: ReasonTransport, Err: err})
		}

		switch f.feed(b) {
		case frameComplete:
			return c.publish(f.frame())
		case frameOverflow:
			return c.fail(&Error{Reason: ReasonOverflow})
		}
	}

	return c.fail(&Error{Reason: ReasonTimeout})
}

func (c *Client) publish(frame []byte) error {
	m, perr := parseResponse(frame)
	if perr != nil {
		c.dataValid = false
		return c.fail(perr)
	}
	c.m = m
	c.dataValid = true
	return nil
}

func (c *Client) fail(e *Error) error {
	c.lastErr = e
	return e
}

// LastError returns the message of the last failed Poll, or "".
func (c *Client) LastError() string {
	if c.lastErr == nil {
		return ""
	}
	return c.lastErr.Error()
}

// DataValid reports whether the most recent parse produced all six fields.
func (c *Client) DataValid() bool { return c.dataValid }

// Measurements returns a copy of the last published measurement set.
func (c *Client) Measurements() Measurements { return c.m }

func (c *Client) WindSpeed() float64     { return c.m.WindSpeed() }
func (c *Client) WindDirection() float64 { return c.m.WindDirection() }

func (c *Client) VIN1Raw() uint16 { return c.m.VIN1 }
func (c *Client) VIN2Raw() uint16 { return c.m.VIN2 }
func (c *Client) VIN3Raw() uint16 { return c.m.VIN3 }
func (c *Client) VIN4Raw() uint16 { return c.m.VIN4 }

func (c *Client) VIN1MilliVolts() float64 { return c.m.VIN1MilliVolts() }
func (c *Client) VIN2MilliVolts() float64 { return c.m.VIN2MilliVolts() }
func (c *Client) VIN3MilliVolts() float64 { return c.m.VIN3MilliVolts() }
func (c *Client) VIN4MilliVolts() float64 { return c.m.VIN4MilliVolts() }

// ConvertToTemperature is the package-level conversion, kept on the
// client for callers that hold raw values from elsewhere.
func (c *Client) ConvertToTemperature(raw uint16) float64 { return ConvertToTemperature(raw) }

func (c *Client) TemperatureVIN1() float64 { return c.m.TemperatureVIN1() }
func (c *Client) TemperatureVIN2() float64 { return c.m.TemperatureVIN2() }
