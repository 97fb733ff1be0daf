// internal/poller/poller.go
package poller

import (
	"errors"
	"fmt"
	"time"

	"github.com/tamzrod/young32400-bridge/internal/young32400"
)

// Sensor abstracts the interface box operations needed by the poller.
type Sensor interface {
	Poll() error
	Measurements() young32400.Measurements
	DataValid() bool
	Close() error
}

// Factory opens a fresh sensor. ONE attempt per call.
type Factory func() (Sensor, error)

// Config is the minimal runtime config the poller needs.
type Config struct {
	UnitID   string
	Interval time.Duration
}

// Poller is a dumb, clock-driven reader.
type Poller struct {
	cfg     Config
	sensor  Sensor
	factory Factory
}

// New creates a poller with immutable config.
// sensor may be nil when factory is set; the first PollOnce opens it.
func New(cfg Config, sensor Sensor, factory Factory) (*Poller, error) {
	if cfg.UnitID == "" {
		return nil, errors.New("poller: unit id required")
	}
	if cfg.Interval <= 0 {
		return nil, errors.New("poller: interval must be > 0")
	}
	if sensor == nil && factory == nil {
		return nil, errors.New("poller: sensor or factory required")
	}
	return &Poller{cfg: cfg, sensor: sensor, factory: factory}, nil
}

// PollOnce performs exactly one poll cycle.
// On transport death the sensor is discarded and reopened on a later cycle.
func (p *Poller) PollOnce() PollResult {
	res := PollResult{
		UnitID: p.cfg.UnitID,
		At:     time.Now(),
	}

	if p.sensor == nil {
		if p.factory == nil {
			res.Err = errors.New("poller: no sensor")
			return res
		}
		s, err := p.factory()
		if err != nil {
			res.Err = fmt.Errorf("poller: reopen: %w", err)
			return res
		}
		p.sensor = s
	}

	err := p.sensor.Poll()
	res.Measurements = p.sensor.Measurements()
	res.Valid = p.sensor.DataValid()
	if err != nil {
		res.Err = err
		if errors.Is(err, young32400.ErrTransport) && p.factory != nil {
			_ = p.sensor.Close()
			p.sensor = nil
		}
	}
	return res
}

// Close releases the current sensor, if any.
func (p *Poller) Close() error {
	if p.sensor == nil {
		return nil
	}
	err := p.sensor.Close()
	p.sensor = nil
	return err
}
