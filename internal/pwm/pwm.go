// Package pwm drives pulse-width modulated outputs.
package pwm

import (
	"fmt"
	"time"

	"github.com/sweeney/board-samples/internal/hwerr"
)

// Output is a single PWM channel.
type Output interface {
	// SetPeriod sets the length of one PWM cycle.
	SetPeriod(period time.Duration) error

	// Enable starts or stops the output.
	Enable(on bool) error

	// Write sets the duty cycle, the fraction of each period driven high,
	// in [0.0, 1.0].
	Write(duty float64) error

	// Close disables the output and releases the channel.
	Close() error
}

// Driver names accepted by Open.
const (
	DriverSysfs  = "sysfs"
	DriverPeriph = "periph"
)

// Open opens a PWM channel with the named driver. The sysfs driver uses
// pwmchip<chip>/pwm<channel> under root; the periph driver uses GPIO<channel>
// from the periph registry and ignores root and chip.
func Open(driver, root string, chip, channel int) (Output, error) {
	switch driver {
	case DriverSysfs, "":
		o, err := NewSysfsPWM(root, chip, channel)
		if err != nil {
			return nil, err
		}
		return o, nil
	case DriverPeriph:
		o, err := NewPeriphPWM(channel)
		if err != nil {
			return nil, err
		}
		return o, nil
	}
	return nil, fmt.Errorf("unknown pwm driver %q", driver)
}

func checkDuty(channel int, duty float64) error {
	if duty < 0 || duty > 1 || duty != duty {
		return hwerr.Wrap("write pwm duty", channel, fmt.Errorf("duty %v: %w", duty, hwerr.ErrOutOfRange))
	}
	return nil
}

func checkPeriod(channel int, period time.Duration) error {
	if period <= 0 {
		return hwerr.Wrap("set pwm period", channel, fmt.Errorf("period %v: %w", period, hwerr.ErrOutOfRange))
	}
	return nil
}

func errNoPeriod(channel int) error {
	return &hwerr.Error{Op: "write pwm duty", Pin: channel, Kind: hwerr.Fatal, Err: fmt.Errorf("period not set")}
}
