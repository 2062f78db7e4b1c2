package gpio

import (
	"fmt"
	"io/fs"

	pgpio "periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"

	"github.com/sweeney/board-samples/internal/hwerr"
	"github.com/sweeney/board-samples/internal/logic"
)

// PeriphReader reads a pin from the periph.io registry, addressed as GPIO<n>.
type PeriphReader struct {
	num int
	pin pgpio.PinIO
}

// NewPeriphReader configures GPIO<num> as an input without changing its pull.
func NewPeriphReader(num int) (*PeriphReader, error) {
	p, err := periphPin(num)
	if err != nil {
		return nil, err
	}
	if err := p.In(pgpio.PullNoChange, pgpio.NoEdge); err != nil {
		return nil, hwerr.Wrap("configure gpio input", num, err)
	}
	return &PeriphReader{num: num, pin: p}, nil
}

// Read returns the pin level. periph reports no read errors.
func (r *PeriphReader) Read() (logic.Level, error) {
	if r.pin == nil {
		return logic.Low, hwerr.Wrap("read gpio", r.num, hwerr.ErrClosed)
	}
	if r.pin.Read() == pgpio.High {
		return logic.High, nil
	}
	return logic.Low, nil
}

// Close halts the pin.
func (r *PeriphReader) Close() error {
	if r.pin == nil {
		return nil
	}
	err := r.pin.Halt()
	r.pin = nil
	if err != nil {
		return fmt.Errorf("halt gpio %d: %w", r.num, err)
	}
	return nil
}

// PeriphWriter drives a pin from the periph.io registry.
type PeriphWriter struct {
	num int
	pin pgpio.PinIO
}

// NewPeriphWriter configures GPIO<num> as an output driven low.
func NewPeriphWriter(num int) (*PeriphWriter, error) {
	p, err := periphPin(num)
	if err != nil {
		return nil, err
	}
	if err := p.Out(pgpio.Low); err != nil {
		return nil, hwerr.Wrap("configure gpio output", num, err)
	}
	return &PeriphWriter{num: num, pin: p}, nil
}

// Write drives the pin to level.
func (w *PeriphWriter) Write(level logic.Level) error {
	if w.pin == nil {
		return hwerr.Wrap("write gpio", w.num, hwerr.ErrClosed)
	}
	if err := w.pin.Out(pgpio.Level(level == logic.High)); err != nil {
		return hwerr.Wrap("write gpio", w.num, err)
	}
	return nil
}

// Close switches the pin back to input and halts it.
func (w *PeriphWriter) Close() error {
	if w.pin == nil {
		return nil
	}
	var errs []error
	if err := w.pin.In(pgpio.PullNoChange, pgpio.NoEdge); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure gpio %d: %w", w.num, err))
	}
	if err := w.pin.Halt(); err != nil {
		errs = append(errs, fmt.Errorf("halt gpio %d: %w", w.num, err))
	}
	w.pin = nil

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}

// periphPin initialises the periph host drivers and looks up GPIO<num>.
// host.Init is safe to call more than once.
func periphPin(num int) (pgpio.PinIO, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	name := fmt.Sprintf("GPIO%d", num)
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, hwerr.Wrap("lookup gpio", num, fmt.Errorf("%s: %w", name, fs.ErrNotExist))
	}
	return p, nil
}
