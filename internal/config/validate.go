// internal/config/validate.go
package config

import (
	"fmt"
	"strings"

	pserial "github.com/tamzrod/young32400-bridge/internal/poller/serial"
	"github.com/tamzrod/young32400-bridge/internal/status"
	"github.com/tamzrod/young32400-bridge/internal/young32400"
)

const (
	ProtocolModbus = "modbus"
	ProtocolIngest = "ingest"
)

// Validate checks configuration correctness.
// It performs declarative validation only.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	type span struct {
		start uint32
		end   uint32
		unit  string
	}

	if cfg == nil {
		return fmt.Errorf("config: nil")
	}
	if len(cfg.Bridge.Units) == 0 {
		return fmt.Errorf("config: at least one unit required")
	}
	if p := cfg.Bridge.StatusMemory.Protocol; p != "" && !knownProtocol(p) {
		return fmt.Errorf("status_memory: unknown protocol %q", p)
	}

	// ------------------------------------------------------------
	// UNIT / SOURCE VALIDATION
	// ------------------------------------------------------------

	seen := make(map[string]struct{})
	// key = port
	portOwner := make(map[string]string)

	for _, u := range cfg.Bridge.Units {
		if u.ID == "" {
			return fmt.Errorf("unit: id required")
		}
		if _, dup := seen[u.ID]; dup {
			return fmt.Errorf("unit %q: duplicate id", u.ID)
		}
		seen[u.ID] = struct{}{}

		src := u.Source
		if src.Port == "" {
			return fmt.Errorf("unit %q: source.port required", u.ID)
		}
		// one client per line, one outstanding request per line
		if prev, exists := portOwner[src.Port]; exists {
			return fmt.Errorf("unit %q: port %s already used by unit %q", u.ID, src.Port, prev)
		}
		portOwner[src.Port] = u.ID

		if src.Driver != "" && !pserial.KnownDriver(src.Driver) {
			return fmt.Errorf("unit %q: unknown driver %q", u.ID, src.Driver)
		}
		if src.BaudRate < 0 {
			return fmt.Errorf("unit %q: baud_rate must be >= 0", u.ID)
		}
		if src.Address != "" {
			if len(src.Address) != 1 || !young32400.ValidAddress(strings.ToUpper(src.Address)[0]) {
				return fmt.Errorf("unit %q: address must be one of 0-9, A-F (got %q)", u.ID, src.Address)
			}
		}
		if src.TimeoutMs < 0 {
			return fmt.Errorf("unit %q: timeout_ms must be >= 0", u.ID)
		}
		if u.Poll.IntervalMs < 0 {
			return fmt.Errorf("unit %q: poll.interval_ms must be >= 0", u.ID)
		}

		for _, t := range u.Targets {
			if t.Endpoint == "" {
				return fmt.Errorf("unit %q: target endpoint required", u.ID)
			}
			if t.Protocol != "" && !knownProtocol(t.Protocol) {
				return fmt.Errorf("unit %q: target %s: unknown protocol %q", u.ID, t.Endpoint, t.Protocol)
			}
		}
	}

	// ------------------------------------------------------------
	// DEVICE STATUS BLOCK VALIDATION (OPT-IN)
	// ------------------------------------------------------------

	// key = status_slot
	statusOwner := make(map[uint16]string)

	for _, u := range cfg.Bridge.Units {
		// device_name sanity (ASCII only)
		for i := 0; i < len(u.Source.DeviceName); i++ {
			if u.Source.DeviceName[i] > 0x7F {
				return fmt.Errorf(
					"unit %q: device_name must contain ASCII characters only",
					u.ID,
				)
			}
		}

		// status is opt-in
		if u.Source.StatusSlot == nil {
			continue
		}

		if cfg.Bridge.StatusMemory.Endpoint == "" {
			return fmt.Errorf(
				"unit %q: status_slot is set but status_memory.endpoint is empty",
				u.ID,
			)
		}

		slot := *u.Source.StatusSlot
		if (uint32(slot)+1)*status.SlotsPerDevice > 0x10000 {
			return fmt.Errorf("unit %q: status_slot %d out of range", u.ID, slot)
		}

		if prev, exists := statusOwner[slot]; exists {
			return fmt.Errorf(
				"status_slot collision: endpoint=%s unit_id=%d slot=%d used by units %q and %q",
				cfg.Bridge.StatusMemory.Endpoint,
				cfg.Bridge.StatusMemory.UnitID,
				slot,
				prev,
				u.ID,
			)
		}
		statusOwner[slot] = u.ID
	}

	// ------------------------------------------------------------
	// DESTINATION MEMORY GEOMETRY VALIDATION
	// ------------------------------------------------------------

	// key = endpoint | unit_id
	spans := make(map[string][]span)

	for _, u := range cfg.Bridge.Units {
		for _, t := range u.Targets {
			start := uint32(t.Address)
			end := start + status.DataBlockRegisters - 1
			if end > 0xFFFF {
				return fmt.Errorf(
					"unit %q: target %s address %d: data block runs past register 65535",
					u.ID, t.Endpoint, t.Address,
				)
			}

			key := fmt.Sprintf("%s|%d", t.Endpoint, t.UnitID)

			for _, s := range spans[key] {
				// overlap check (inclusive)
				if !(end < s.start || start > s.end) {
					return fmt.Errorf(
						"memory overlap: endpoint=%s unit_id=%d range=%d-%d overlaps with unit=%s range=%d-%d",
						t.Endpoint,
						t.UnitID,
						start,
						end,
						s.unit,
						s.start,
						s.end,
					)
				}
			}

			spans[key] = append(spans[key], span{
				start: start,
				end:   end,
				unit:  u.ID,
			})
		}
	}

	return nil
}

func knownProtocol(p string) bool {
	return p == ProtocolModbus || p == ProtocolIngest
}
