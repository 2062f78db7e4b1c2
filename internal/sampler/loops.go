package sampler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/sweeney/board-samples/internal/analog"
	"github.com/sweeney/board-samples/internal/gpio"
	"github.com/sweeney/board-samples/internal/hwerr"
	"github.com/sweeney/board-samples/internal/logic"
	"github.com/sweeney/board-samples/internal/pwm"
)

// Analog reads the converter as fast as Tick allows and prints each raw count.
func (r *Runner) Analog(ctx context.Context, adc analog.Reader) error {
	l := r.start(logic.KindAnalog)
	lo, hi := adc.Range()

	for {
		if ctx.Err() != nil {
			return nil
		}

		s, err := adc.Read()
		if err == nil && (s.Raw < lo.Raw || s.Raw > hi.Raw) {
			err = hwerr.Wrap("read adc", r.Pin, fmt.Errorf("count %d outside %d..%d: %w", s.Raw, lo.Raw, hi.Raw, hwerr.ErrOutOfRange))
		}
		if err != nil {
			if ferr := l.fault(err); ferr != nil {
				return fmt.Errorf("read adc: %w", ferr)
			}
		} else {
			l.record(l.reading(int(s.Raw), analog.Volts(s)), true)
		}

		if !l.wait(ctx) {
			return nil
		}
	}
}

// DigitalIn reads the line once per tick and prints 0 or 1.
func (r *Runner) DigitalIn(ctx context.Context, in gpio.Reader) error {
	l := r.start(logic.KindDigitalIn)
	var edges logic.EdgeCounter

	for {
		if ctx.Err() != nil {
			return nil
		}

		level, err := in.Read()
		if err != nil {
			if ferr := l.fault(err); ferr != nil {
				return fmt.Errorf("read gpio: %w", ferr)
			}
		} else {
			if edges.Observe(level) {
				l.counts.Transitions = edges.Transitions()
			}
			l.record(l.reading(int(level), float64(level)), true)
		}

		if !l.wait(ctx) {
			return nil
		}
	}
}

// DigitalOut drives the line High, then alternates once per tick. A level is
// only advanced after it was written, so the driven sequence never repeats a
// level. The line is left Low on return.
func (r *Runner) DigitalOut(ctx context.Context, out gpio.Writer) error {
	l := r.start(logic.KindDigitalOut)
	toggle := logic.NewToggle()
	next := toggle.Next()
	last := logic.Low

	defer func() {
		if last == logic.High {
			if err := out.Write(logic.Low); err != nil {
				log.Printf("%s: drive low on shutdown: %v", l.kind, err)
			}
		}
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		if err := out.Write(next); err != nil {
			if ferr := l.fault(err); ferr != nil {
				return fmt.Errorf("write gpio: %w", ferr)
			}
		} else {
			last = next
			l.record(l.reading(int(next), float64(next)), false)
			next = toggle.Next()
		}

		if !l.wait(ctx) {
			return nil
		}
	}
}

// PWM sets the period, enables the output and ramps the duty cycle from 0.0
// towards 1.0, one step per tick, wrapping back to 0.0. The output is
// disabled on return.
func (r *Runner) PWM(ctx context.Context, out pwm.Output, period time.Duration) error {
	l := r.start(logic.KindPWM)
	ramp := logic.NewRamp(logic.DefaultRampSteps)

	if err := out.SetPeriod(period); err != nil {
		return fmt.Errorf("set pwm period: %w", err)
	}
	if err := out.Enable(true); err != nil {
		return fmt.Errorf("enable pwm: %w", err)
	}
	defer func() {
		if err := out.Enable(false); err != nil {
			log.Printf("%s: disable on shutdown: %v", l.kind, err)
		}
	}()

	for {
		if ctx.Err() != nil {
			return nil
		}

		duty := ramp.Duty()
		err := out.Write(duty)
		if err != nil {
			if ferr := l.fault(err); ferr != nil {
				return fmt.Errorf("write pwm: %w", ferr)
			}
		} else {
			l.record(l.reading(ramp.Step(), duty), false)
		}

		if !l.wait(ctx) {
			return nil
		}

		if err == nil && ramp.Advance() {
			l.counts.Cycles = ramp.Cycles()
		}
	}
}
