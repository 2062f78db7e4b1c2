package pwm

import (
	"fmt"
	"io/fs"
	"math"
	"time"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/sweeney/board-samples/internal/hwerr"
)

// PeriphPWM drives PWM on a periph.io pin that supports it, such as the
// hardware PWM pins of a Raspberry Pi.
type PeriphPWM struct {
	num     int
	pin     pgpio.PinIO
	period  time.Duration
	duty    float64
	enabled bool
}

// NewPeriphPWM looks up GPIO<num> in the periph registry.
func NewPeriphPWM(num int) (*PeriphPWM, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	name := fmt.Sprintf("GPIO%d", num)
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, hwerr.Wrap("open pwm", num, fmt.Errorf("%s: %w", name, fs.ErrNotExist))
	}
	return &PeriphPWM{num: num, pin: p}, nil
}

// SetPeriod sets the cycle length, applied immediately when enabled.
func (p *PeriphPWM) SetPeriod(period time.Duration) error {
	if p.pin == nil {
		return hwerr.Wrap("set pwm period", p.num, hwerr.ErrClosed)
	}
	if err := checkPeriod(p.num, period); err != nil {
		return err
	}
	p.period = period
	if p.enabled {
		return p.apply("set pwm period")
	}
	return nil
}

// Enable starts the output at the last written duty, or halts the pin.
func (p *PeriphPWM) Enable(on bool) error {
	if p.pin == nil {
		return hwerr.Wrap("enable pwm", p.num, hwerr.ErrClosed)
	}
	if !on {
		p.enabled = false
		if err := p.pin.Halt(); err != nil {
			return hwerr.Wrap("enable pwm", p.num, err)
		}
		return nil
	}
	if p.period == 0 {
		return errNoPeriod(p.num)
	}
	p.enabled = true
	return p.apply("enable pwm")
}

// Write sets the duty cycle.
func (p *PeriphPWM) Write(duty float64) error {
	if p.pin == nil {
		return hwerr.Wrap("write pwm duty", p.num, hwerr.ErrClosed)
	}
	if err := checkDuty(p.num, duty); err != nil {
		return err
	}
	if p.period == 0 {
		return errNoPeriod(p.num)
	}
	p.duty = duty
	if p.enabled {
		return p.apply("write pwm duty")
	}
	return nil
}

func (p *PeriphPWM) apply(op string) error {
	d := pgpio.Duty(math.Round(p.duty * float64(pgpio.DutyMax)))
	if err := p.pin.PWM(d, physic.PeriodToFrequency(p.period)); err != nil {
		return hwerr.Wrap(op, p.num, err)
	}
	return nil
}

// Close halts the pin.
func (p *PeriphPWM) Close() error {
	if p.pin == nil {
		return nil
	}
	err := p.pin.Halt()
	p.pin = nil
	p.enabled = false
	if err != nil {
		return fmt.Errorf("halt pwm %d: %w", p.num, err)
	}
	return nil
}
