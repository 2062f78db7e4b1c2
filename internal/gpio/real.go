//go:build linux

package gpio

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"github.com/sweeney/board-samples/internal/hwerr"
	"github.com/sweeney/board-samples/internal/logic"
)

// RealReader reads a line using the Linux GPIO character device.
type RealReader struct {
	offset int
	line   *gpiocdev.Line
}

// NewRealReader requests offset on chip as an input.
func NewRealReader(chip string, offset int) (*RealReader, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsInput, gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, hwerr.Wrap("request gpio input", offset, fmt.Errorf("%s: %w", chip, err))
	}
	return &RealReader{offset: offset, line: line}, nil
}

// Read returns the line level.
func (r *RealReader) Read() (logic.Level, error) {
	if r.line == nil {
		return logic.Low, hwerr.Wrap("read gpio", r.offset, hwerr.ErrClosed)
	}
	v, err := r.line.Value()
	if err != nil {
		return logic.Low, hwerr.Wrap("read gpio", r.offset, err)
	}
	return logic.LevelFromInt(v), nil
}

// Close releases the line.
func (r *RealReader) Close() error {
	if r.line == nil {
		return nil
	}
	err := r.line.Close()
	r.line = nil
	if err != nil {
		return fmt.Errorf("close gpio %d: %w", r.offset, err)
	}
	return nil
}

// RealWriter drives a line using the Linux GPIO character device.
type RealWriter struct {
	offset int
	line   *gpiocdev.Line
}

// NewRealWriter requests offset on chip as an output driven low.
func NewRealWriter(chip string, offset int) (*RealWriter, error) {
	line, err := gpiocdev.RequestLine(chip, offset, gpiocdev.AsOutput(0), gpiocdev.WithConsumer(consumer))
	if err != nil {
		return nil, hwerr.Wrap("request gpio output", offset, fmt.Errorf("%s: %w", chip, err))
	}
	return &RealWriter{offset: offset, line: line}, nil
}

// Write drives the line to level.
func (w *RealWriter) Write(level logic.Level) error {
	if w.line == nil {
		return hwerr.Wrap("write gpio", w.offset, hwerr.ErrClosed)
	}
	if err := w.line.SetValue(int(level)); err != nil {
		return hwerr.Wrap("write gpio", w.offset, err)
	}
	return nil
}

// Close releases the line.
// Reconfigures the line as input before closing so that nothing is left
// driving whatever is attached to the pin.
func (w *RealWriter) Close() error {
	if w.line == nil {
		return nil
	}
	var errs []error
	if err := w.line.Reconfigure(gpiocdev.AsInput); err != nil {
		errs = append(errs, fmt.Errorf("reconfigure gpio %d: %w", w.offset, err))
	}
	if err := w.line.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close gpio %d: %w", w.offset, err))
	}
	w.line = nil

	if len(errs) > 0 {
		return fmt.Errorf("close errors: %v", errs)
	}
	return nil
}
