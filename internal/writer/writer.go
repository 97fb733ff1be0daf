// internal/writer/writer.go
package writer

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tamzrod/young32400-bridge/internal/poller"
	"github.com/tamzrod/young32400-bridge/internal/status"
)

type dataWriter struct {
	plan    Plan
	clients map[string]EndpointClient
}

func New(plan Plan, clients map[string]EndpointClient) Writer {
	return &dataWriter{
		plan:    plan,
		clients: clients,
	}
}

// Write delivers the data block of a successful poll to every target.
// A failed poll writes nothing: targets keep the last good values.
func (w *dataWriter) Write(res poller.PollResult) error {
	if res.Err != nil {
		return nil
	}

	regs := status.EncodeMeasurements(res.Measurements)

	var errs []string
	for _, tgt := range w.plan.Targets {
		cli := w.clients[tgt.Endpoint]
		if cli == nil {
			errs = append(errs, fmt.Sprintf(
				"writer: missing client for endpoint %s",
				tgt.Endpoint,
			))
			continue
		}

		if err := cli.WriteRegisters(tgt.UnitID, tgt.Address, regs); err != nil {
			errs = append(errs, fmt.Sprintf(
				"writer: ep=%s unit=%d addr=%d err=%v",
				tgt.Endpoint, tgt.UnitID, tgt.Address, err,
			))
		}
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, " | "))
	}

	return nil
}
