// internal/writer/builder.go
package writer

import (
	"errors"
	"fmt"
	"time"

	cfg "github.com/tamzrod/young32400-bridge/internal/config"
	"github.com/tamzrod/young32400-bridge/internal/writer/ingest"
	wmodbus "github.com/tamzrod/young32400-bridge/internal/writer/modbus"
)

// BuildPlan converts one unit config into a Writer Plan.
// Assumes config has already passed validation and normalization.
func BuildPlan(u cfg.UnitConfig, sm cfg.StatusMemoryConfig) (Plan, error) {
	if u.ID == "" {
		return Plan{}, errors.New("writer: unit.id required")
	}

	plan := Plan{UnitID: u.ID}

	for _, t := range u.Targets {
		plan.Targets = append(plan.Targets, TargetEndpoint{
			Endpoint: t.Endpoint,
			UnitID:   t.UnitID,
			Address:  t.Address,
		})
	}

	if u.Source.StatusSlot != nil {
		plan.Status = &StatusPlan{
			Endpoint:   sm.Endpoint,
			UnitID:     sm.UnitID,
			BaseSlot:   *u.Source.StatusSlot,
			DeviceName: u.Source.DeviceName,
		}
	}

	return plan, nil
}

// BuildEndpointClients creates one client per unique endpoint (data + status).
func BuildEndpointClients(u cfg.UnitConfig, sm cfg.StatusMemoryConfig) (map[string]EndpointClient, func() error, error) {
	timeout := time.Duration(u.Source.TimeoutMs) * time.Millisecond

	// endpoint -> protocol
	unique := map[string]string{}
	for _, t := range u.Targets {
		unique[t.Endpoint] = t.Protocol
	}
	if u.Source.StatusSlot != nil && sm.Endpoint != "" {
		if _, ok := unique[sm.Endpoint]; !ok {
			unique[sm.Endpoint] = sm.Protocol
		}
	}

	clients := make(map[string]EndpointClient)
	var closers []func() error

	closeAll := func() error {
		var last error
		for _, fn := range closers {
			if err := fn(); err != nil {
				last = err
			}
		}
		return last
	}

	for endpoint, protocol := range unique {
		switch protocol {
		case cfg.ProtocolIngest:
			c, err := ingest.NewEndpointClient(ingest.Config{
				Endpoint: endpoint,
				Timeout:  timeout,
			})
			if err != nil {
				_ = closeAll()
				return nil, nil, err
			}
			clients[endpoint] = c
			closers = append(closers, c.Close)

		case cfg.ProtocolModbus, "":
			c, err := wmodbus.NewEndpointClient(wmodbus.Config{
				Endpoint: endpoint,
				Timeout:  timeout,
			})
			if err != nil {
				_ = closeAll()
				return nil, nil, err
			}
			clients[endpoint] = c
			closers = append(closers, c.Close)

		default:
			_ = closeAll()
			return nil, nil, fmt.Errorf("writer: unknown protocol %q for endpoint %s", protocol, endpoint)
		}
	}

	return clients, closeAll, nil
}
