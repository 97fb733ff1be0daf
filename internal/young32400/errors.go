// internal/young32400/errors.go
package young32400

// Reason classifies a failed poll.
type Reason uint8

const (
	ReasonNone Reason = iota
	ReasonTimeout
	ReasonOverflow
	ReasonIncomplete
	ReasonTransport
)

// MaxErrorLen bounds the pending error message.
const MaxErrorLen = 63

func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return ""
	case ReasonTimeout:
		return "Timeout waiting for response"
	case ReasonOverflow:
		return "Response buffer overflow"
	case ReasonIncomplete:
		return "Incomplete data received"
	case ReasonTransport:
		return "Transport error"
	default:
		return "Unknown error"
	}
}

// Error is returned by Client.Poll.
// Err carries the underlying cause for ReasonTransport only.
type Error struct {
	Reason Reason
	Err    error
}

var (
	ErrTimeout    = &Error{Reason: ReasonTimeout}
	ErrOverflow   = &Error{Reason: ReasonOverflow}
	ErrIncomplete = &Error{Reason: ReasonIncomplete}
	ErrTransport  = &Error{Reason: ReasonTransport}
)

// Error returns the human-readable message, at most MaxErrorLen bytes.
func (e *Error) Error() string {
	msg := e.Reason.String()
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if len(msg) > MaxErrorLen {
		msg = msg[:MaxErrorLen]
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on Reason so the package sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Reason == e.Reason
}

// Code exposes the reason as a status block error code.
func (e *Error) Code() uint16 { return uint16(e.Reason) }
