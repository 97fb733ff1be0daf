// internal/young32400/parse.go
package young32400

import (
	"bytes"
	"math"
	"strings"
)

// ResponsePrefix is echoed by the box ahead of the data fields.
// Some configurations omit it.
const ResponsePrefix = "32400!"

// FieldCount is the number of data fields in a response.
const FieldCount = 6

// parseResponse decodes the six fields of a frame.
// Tokens past the sixth are ignored.
func parseResponse(frame []byte) (Measurements, *Error) {
	data := frame
	if i := bytes.Index(frame, []byte(ResponsePrefix)); i >= 0 {
		data = frame[i+len(ResponsePrefix):]
	}

	tokens := strings.Split(string(data), ",")
	if len(tokens) < FieldCount {
		return Measurements{}, &Error{Reason: ReasonIncomplete}
	}

	var v [FieldCount]uint16
	for i := range v {
		v[i] = atoi(tokens[i])
	}

	return Measurements{
		WindSpeedTenths:     v[0],
		WindDirectionTenths: v[1],
		VIN1:                v[2],
		VIN2:                v[3],
		VIN3:                v[4],
		VIN4:                v[5],
	}, nil
}

// atoi converts permissively: leading blanks, an optional sign, then as
// many digits as present. Anything else yields 0. Magnitudes saturate at
// the 32-bit signed range, then the result is truncated to 16 bits, so an
// oversized positive value reads 65535 and an oversized negative one 0.
func atoi(s string) uint16 {
	i := 0
	for i < len(s) && isSpace(s[i]) {
		i++
	}

	neg := false
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		neg = s[i] == '-'
		i++
	}

	var n int64
	for ; i < len(s) && isDigit(s[i]); i++ {
		n = n*10 + int64(s[i]-'0')
		if n > math.MaxInt32+1 {
			n = math.MaxInt32 + 1
		}
	}
	if neg {
		n = -n
	} else if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	return uint16(n)
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}
