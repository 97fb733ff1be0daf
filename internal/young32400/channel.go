// internal/young32400/channel.go
package young32400

import "time"

// ByteChannel is the duplex byte stream the client talks through.
// Line discipline (19200 8N1) is the owner's responsibility.
type ByteChannel interface {
	// Available reports how many bytes can be read without waiting.
	Available() int
	ReadByte() (byte, error)
	Write(p []byte) (int, error)
}

// Clock supplies a monotonic reading. Resolution must be finer than the
// timeouts measured against it.
type Clock interface {
	Now() time.Duration
}

// SystemClock measures time since it was created.
// It relies on the monotonic reading carried by time.Time.
type SystemClock struct {
	epoch time.Time
}

// NewSystemClock returns a clock whose zero is the moment of the call.
func NewSystemClock() *SystemClock {
	return &SystemClock{epoch: time.Now()}
}

// Now returns the time elapsed since the clock was created.
func (c *SystemClock) Now() time.Duration {
	return time.Since(c.epoch)
}
