// Package hwerr classifies hardware I/O failures as transient (worth retrying
// on the next loop iteration) or fatal (misconfiguration; stop).
package hwerr

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"syscall"
)

// Kind is the class of a hardware fault.
type Kind int

const (
	Transient Kind = iota + 1
	Fatal
)

func (k Kind) String() string {
	switch k {
	case Transient:
		return "transient"
	case Fatal:
		return "fatal"
	}
	return "unknown"
}

var (
	// ErrOutOfRange reports a value outside what the device accepts or can produce.
	ErrOutOfRange = errors.New("value out of range")
	// ErrClosed reports use of a released pin.
	ErrClosed = errors.New("pin closed")
	// ErrUnsupported reports an operation the selected backend cannot perform.
	ErrUnsupported = errors.New("not supported")
)

// Error is a classified failure of a single device operation.
type Error struct {
	Op   string // e.g. "read gpio", "write pwm duty"
	Pin  int
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %d: %s: %v", e.Op, e.Pin, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap classifies err and attaches the operation and pin. It returns nil for a
// nil err. An err that already carries a Kind keeps it.
func Wrap(op string, pin int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Pin: pin, Kind: KindOf(err), Err: err}
}

// KindOf returns the class of err. Errors that are not recognised as
// configuration problems are treated as transient.
func KindOf(err error) Kind {
	var he *Error
	if errors.As(err, &he) {
		return he.Kind
	}
	switch {
	case errors.Is(err, ErrOutOfRange),
		errors.Is(err, ErrClosed),
		errors.Is(err, ErrUnsupported),
		errors.Is(err, fs.ErrNotExist),
		errors.Is(err, fs.ErrPermission),
		errors.Is(err, syscall.ENODEV),
		errors.Is(err, syscall.ENXIO),
		errors.Is(err, syscall.EINVAL):
		return Fatal
	case errors.Is(err, syscall.EAGAIN),
		errors.Is(err, syscall.EINTR),
		errors.Is(err, syscall.EBUSY),
		errors.Is(err, syscall.EIO),
		errors.Is(err, syscall.ETIMEDOUT),
		errors.Is(err, os.ErrDeadlineExceeded),
		errors.Is(err, context.DeadlineExceeded):
		return Transient
	}
	return Transient
}

// IsTransient reports whether err may clear on retry.
func IsTransient(err error) bool {
	return err != nil && KindOf(err) == Transient
}

// IsFatal reports whether err will not clear on retry.
func IsFatal(err error) bool {
	return err != nil && KindOf(err) == Fatal
}
