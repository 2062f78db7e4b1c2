// Package analog reads analog-to-digital converter channels.
//
// Samples use periph.io's analog.Sample so that any periph analog.PinADC can
// stand in for the IIO implementation here.
package analog

import (
	"periph.io/x/conn/v3/analog"
	"periph.io/x/conn/v3/physic"
)

// Reader reads one converter channel.
type Reader interface {
	// Read returns the current conversion.
	Read() (analog.Sample, error)

	// Range returns the lowest and highest samples the channel can produce.
	Range() (analog.Sample, analog.Sample)

	// Close releases the channel.
	Close() error
}

// Volts converts a sample's potential to volts.
func Volts(s analog.Sample) float64 {
	return float64(s.V) / float64(physic.Volt)
}

// maxRaw returns the highest count of a converter with the given resolution.
func maxRaw(bits int) int32 {
	return int32(1)<<uint(bits) - 1
}

// sample builds a Sample from a raw count and a scale in millivolts per count.
func sample(raw int32, scaleMV float64) analog.Sample {
	return analog.Sample{
		Raw: raw,
		V:   physic.ElectricPotential(float64(raw) * scaleMV * float64(physic.MilliVolt)),
	}
}
