//go:build !linux

package gpio

import (
	"fmt"

	"github.com/sweeney/board-samples/internal/hwerr"
	"github.com/sweeney/board-samples/internal/logic"
)

var errPlatform = fmt.Errorf("gpio: requires Linux: %w", hwerr.ErrUnsupported)

// RealReader is not available on non-Linux platforms.
type RealReader struct{}

// NewRealReader returns an error on non-Linux platforms.
func NewRealReader(chip string, offset int) (*RealReader, error) {
	return nil, errPlatform
}

// Read is not implemented on non-Linux platforms.
func (r *RealReader) Read() (logic.Level, error) {
	return logic.Low, errPlatform
}

// Close is not implemented on non-Linux platforms.
func (r *RealReader) Close() error {
	return nil
}

// RealWriter is not available on non-Linux platforms.
type RealWriter struct{}

// NewRealWriter returns an error on non-Linux platforms.
func NewRealWriter(chip string, offset int) (*RealWriter, error) {
	return nil, errPlatform
}

// Write is not implemented on non-Linux platforms.
func (w *RealWriter) Write(level logic.Level) error {
	return errPlatform
}

// Close is not implemented on non-Linux platforms.
func (w *RealWriter) Close() error {
	return nil
}
