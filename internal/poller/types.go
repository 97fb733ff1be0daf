// internal/poller/types.go
package poller

import (
	"time"

	"github.com/tamzrod/young32400-bridge/internal/young32400"
)

// PollResult is a snapshot produced by one poll cycle.
type PollResult struct {
	UnitID string
	At     time.Time

	// Measurements is the last published set; it is only fresh when Err is nil.
	Measurements young32400.Measurements
	Valid        bool

	Err error // non-nil means the poll cycle failed
}
