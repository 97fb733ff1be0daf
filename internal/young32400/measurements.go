// internal/young32400/measurements.go
package young32400

// Measurements is one complete, positionally parsed response.
//
// Wire encoding:
//   - wind speed and direction in tenths (m/s, degrees)
//   - VIN1..VIN4 raw, 0-4000 full scale
//
// VIN1/VIN2 span 0-1000 mV, VIN3/VIN4 span 0-5000 mV.
type Measurements struct {
	WindSpeedTenths     uint16
	WindDirectionTenths uint16
	VIN1                uint16
	VIN2                uint16
	VIN3                uint16
	VIN4                uint16
}

// WindSpeed in m/s.
func (m Measurements) WindSpeed() float64 { return float64(m.WindSpeedTenths) / 10.0 }

// WindDirection in degrees. Not clamped to 0-360.
func (m Measurements) WindDirection() float64 { return float64(m.WindDirectionTenths) / 10.0 }

func (m Measurements) VIN1MilliVolts() float64 { return float64(m.VIN1) / 4.0 }
func (m Measurements) VIN2MilliVolts() float64 { return float64(m.VIN2) / 4.0 }
func (m Measurements) VIN3MilliVolts() float64 { return float64(m.VIN3) * 1.25 }
func (m Measurements) VIN4MilliVolts() float64 { return float64(m.VIN4) * 1.25 }

func (m Measurements) TemperatureVIN1() float64 { return ConvertToTemperature(m.VIN1) }
func (m Measurements) TemperatureVIN2() float64 { return ConvertToTemperature(m.VIN2) }

// ConvertToTemperature maps a VIN1/VIN2 raw value to degrees Celsius for a
// 41342VC probe (0-1000 mV = -50..+50 C, linear).
// Raw values from VIN3/VIN4 use a different scale and give wrong results.
func ConvertToTemperature(raw uint16) float64 {
	mV := float64(raw) / 4.0
	return -50.0 + mV/10.0
}
