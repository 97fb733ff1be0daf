// internal/young32400/frame.go
package young32400

// ResponseBufferSize is the capacity of one response frame,
// one byte of which is reserved for the terminator.
const ResponseBufferSize = 128

type frameEvent uint8

const (
	frameMore frameEvent = iota
	frameComplete
	frameOverflow
)

// framer delimits one response.
// Leading noise is skipped until the first digit; CR or LF ends the frame.
type framer struct {
	buf     []byte
	started bool
}

func newFramer() *framer {
	return &framer{buf: make([]byte, 0, ResponseBufferSize)}
}

func (f *framer) feed(b byte) frameEvent {
	if !f.started {
		if !isDigit(b) {
			return frameMore
		}
		f.started = true
		f.buf = append(f.buf, b)
		return frameMore
	}

	if b == '\r' || b == '\n' {
		return frameComplete
	}

	if len(f.buf)+1 >= ResponseBufferSize-1 {
		return frameOverflow
	}
	f.buf = append(f.buf, b)
	return frameMore
}

// frame returns the accumulated bytes, terminator excluded.
func (f *framer) frame() []byte { return f.buf }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
