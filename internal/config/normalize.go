// internal/config/normalize.go
package config

import "strings"

// Defaults applied by Normalize.
const (
	DefaultDriver     = "goburrow"
	DefaultBaudRate   = 19200
	DefaultAddress    = "0"
	DefaultTimeoutMs  = 1000
	DefaultIntervalMs = 1000
	DefaultProtocol   = ProtocolModbus

	DeviceNameMaxChars = 16
)

// Normalize applies post-validation normalization.
// It is allowed to mutate configuration.
// It MUST be called only after Validate().
func Normalize(cfg *Config) {
	if cfg == nil {
		return
	}

	if cfg.Bridge.StatusMemory.Endpoint != "" && cfg.Bridge.StatusMemory.Protocol == "" {
		cfg.Bridge.StatusMemory.Protocol = DefaultProtocol
	}

	for ui := range cfg.Bridge.Units {
		u := &cfg.Bridge.Units[ui]

		// ------------------------------------------------------------
		// SOURCE DEFAULTS
		// ------------------------------------------------------------

		if u.Source.Driver == "" {
			u.Source.Driver = DefaultDriver
		}
		if u.Source.BaudRate == 0 {
			u.Source.BaudRate = DefaultBaudRate
		}
		if u.Source.Address == "" {
			u.Source.Address = DefaultAddress
		}
		// a-f accepted, the box expects upper case
		u.Source.Address = strings.ToUpper(u.Source.Address)

		if u.Source.TimeoutMs == 0 {
			u.Source.TimeoutMs = DefaultTimeoutMs
		}
		if u.Poll.IntervalMs == 0 {
			u.Poll.IntervalMs = DefaultIntervalMs
		}

		for ti := range u.Targets {
			if u.Targets[ti].Protocol == "" {
				u.Targets[ti].Protocol = DefaultProtocol
			}
		}

		// ------------------------------------------------------------
		// DEVICE STATUS BLOCK NORMALIZATION (OPT-IN)
		// ------------------------------------------------------------

		if u.Source.StatusSlot == nil {
			continue
		}

		// ASCII already validated
		if len(u.Source.DeviceName) > DeviceNameMaxChars {
			u.Source.DeviceName = u.Source.DeviceName[:DeviceNameMaxChars]
		}
	}
}
