// internal/poller/builder.go
package poller

import (
	"time"

	cfg "github.com/tamzrod/young32400-bridge/internal/config"
	pserial "github.com/tamzrod/young32400-bridge/internal/poller/serial"
	"github.com/tamzrod/young32400-bridge/internal/young32400"
)

// serialSensor owns the port behind a client.
type serialSensor struct {
	*young32400.Client
	ch *pserial.Channel
}

func (s *serialSensor) Close() error { return s.ch.Close() }

// Build constructs a Poller and wires serial port lifecycle.
// The port is reused while healthy.
// On transport death, Poller closes it and uses factory on a future tick.
func Build(u cfg.UnitConfig) (*Poller, func() error, error) {
	src := u.Source

	// sensor factory: ONE attempt per call
	factory := func() (Sensor, error) {
		ch, err := pserial.Open(pserial.Config{
			Port:     src.Port,
			Driver:   src.Driver,
			BaudRate: src.BaudRate,
		})
		if err != nil {
			return nil, err
		}
		c := young32400.New(ch, src.AddressByte())
		c.SetTimeout(time.Duration(src.TimeoutMs) * time.Millisecond)
		return &serialSensor{Client: c, ch: ch}, nil
	}

	// initial sensor (fail fast at startup)
	sensor, err := factory()
	if err != nil {
		return nil, nil, err
	}

	p, err := New(
		Config{
			UnitID:   u.ID,
			Interval: time.Duration(u.Poll.IntervalMs) * time.Millisecond,
		},
		sensor,
		factory,
	)
	if err != nil {
		_ = sensor.Close()
		return nil, nil, err
	}

	return p, p.Close, nil
}
