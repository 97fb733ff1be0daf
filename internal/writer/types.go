// internal/writer/types.go
package writer

import "github.com/tamzrod/young32400-bridge/internal/poller"

// EndpointClient is the exact contract the writers use.
// Implemented by writer/modbus and writer/ingest.
type EndpointClient interface {
	WriteRegisters(unitID uint8, addr uint16, regs []uint16) error
}

// TargetEndpoint is one destination for the measurement data block.
type TargetEndpoint struct {
	Endpoint string
	UnitID   uint8
	Address  uint16 // base holding register
}

// StatusPlan locates one unit's device status block.
type StatusPlan struct {
	Endpoint   string
	UnitID     uint8
	BaseSlot   uint16
	DeviceName string
}

// Plan is the fully-built write plan for one unit.
type Plan struct {
	UnitID  string
	Targets []TargetEndpoint
	Status  *StatusPlan // nil when the unit did not opt in
}

// Writer writes poll snapshots into targets.
type Writer interface {
	Write(res poller.PollResult) error
}
