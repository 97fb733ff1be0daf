// internal/status/data.go
package status

import "github.com/tamzrod/young32400-bridge/internal/young32400"

// Measurement Data Block layout, relative to a target's base address.
// Raw wire values are passed through; temperatures are signed tenths of C.

const DataBlockRegisters = 8

const (
	RegWindSpeedTenths     = 0
	RegWindDirectionTenths = 1
	RegVIN1                = 2
	RegVIN2                = 3
	RegVIN3                = 4
	RegVIN4                = 5
	RegTemperatureVIN1     = 6
	RegTemperatureVIN2     = 7
)

// EncodeMeasurements converts a measurement set into a data block.
// No IO. No side effects.
func EncodeMeasurements(m young32400.Measurements) []uint16 {
	regs := make([]uint16, DataBlockRegisters)

	regs[RegWindSpeedTenths] = m.WindSpeedTenths
	regs[RegWindDirectionTenths] = m.WindDirectionTenths
	regs[RegVIN1] = m.VIN1
	regs[RegVIN2] = m.VIN2
	regs[RegVIN3] = m.VIN3
	regs[RegVIN4] = m.VIN4
	regs[RegTemperatureVIN1] = tenthsInt16(m.TemperatureVIN1())
	regs[RegTemperatureVIN2] = tenthsInt16(m.TemperatureVIN2())

	return regs
}

// tenthsInt16 stores v*10 as a two's complement register.
func tenthsInt16(v float64) uint16 {
	t := v * 10
	if t >= 0 {
		t += 0.5
	} else {
		t -= 0.5
	}
	return uint16(int16(t))
}
