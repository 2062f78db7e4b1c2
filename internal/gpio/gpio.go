// Package gpio provides digital line input and output with hardware abstraction.
// The real implementations use the Linux GPIO character device (gpiocdev) or
// periph.io pin registry.
// The fake implementations allow testing without hardware.
package gpio

import (
	"fmt"

	"github.com/sweeney/board-samples/internal/logic"
)

// Reader reads the level of a line configured as input.
type Reader interface {
	// Read returns the current level of the line.
	Read() (logic.Level, error)

	// Close releases the line.
	Close() error
}

// Writer drives a line configured as output.
type Writer interface {
	// Write drives the line to the given level.
	Write(level logic.Level) error

	// Close releases the line. Implementations stop driving the line first.
	Close() error
}

// Driver names accepted by OpenReader and OpenWriter.
const (
	DriverGPIOCDev = "gpiocdev"
	DriverPeriph   = "periph"
)

// consumer is the label shown for our lines in gpioinfo.
const consumer = "board-samples"

// OpenReader requests offset on chip as an input using the named driver.
// The periph driver addresses lines by name ("GPIO<offset>") and ignores chip.
func OpenReader(driver, chip string, offset int) (Reader, error) {
	switch driver {
	case DriverGPIOCDev, "":
		r, err := NewRealReader(chip, offset)
		if err != nil {
			return nil, err
		}
		return r, nil
	case DriverPeriph:
		r, err := NewPeriphReader(offset)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, fmt.Errorf("unknown gpio driver %q", driver)
}

// OpenWriter requests offset on chip as an output, initially low.
func OpenWriter(driver, chip string, offset int) (Writer, error) {
	switch driver {
	case DriverGPIOCDev, "":
		w, err := NewRealWriter(chip, offset)
		if err != nil {
			return nil, err
		}
		return w, nil
	case DriverPeriph:
		w, err := NewPeriphWriter(offset)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
	return nil, fmt.Errorf("unknown gpio driver %q", driver)
}
