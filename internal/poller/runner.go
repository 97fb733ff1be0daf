// internal/poller/runner.go
package poller

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/tamzrod/young32400-bridge/internal/young32400"
)

// Run starts the ticker loop and emits PollResult on the provided channel.
// One goroutine per unit. No overlap. No retries.
func (p *Poller) Run(ctx context.Context, out chan<- PollResult) {
	ticker := time.NewTicker(p.cfg.Interval)
	defer ticker.Stop()

	lg := log.With().Str("unit", p.cfg.UnitID).Logger()
	lg.Info().Dur("interval", p.cfg.Interval).Msg("poller started")
	defer func() { lg.Info().Msg("poller stopped") }()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			res := p.PollOnce()
			if res.Err != nil {
				ev := lg.Warn().Err(res.Err)
				var perr *young32400.Error
				if errors.As(res.Err, &perr) {
					ev = ev.Uint16("code", perr.Code())
				}
				ev.Msg("poll failed")
			} else {
				lg.Debug().
					Float64("wind_speed", res.Measurements.WindSpeed()).
					Float64("wind_direction", res.Measurements.WindDirection()).
					Msg("poll ok")
			}

			select {
			case out <- res:
			case <-ctx.Done():
				return
			}
		}
	}
}
