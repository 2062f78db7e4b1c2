package gpio

import (
	"errors"

	"github.com/sweeney/board-samples/internal/logic"
)

// FakeReader is a test double that returns scripted line levels.
type FakeReader struct {
	// Levels contains scripted levels to return.
	// Each call to Read() consumes the next level.
	Levels []logic.Level

	// index tracks current position in Levels
	index int

	// Reads counts calls to Read.
	Reads int

	// Closed tracks if Close was called
	Closed bool

	// ReadError, if set, will be returned by Read()
	ReadError error
}

// NewFakeReader creates a FakeReader with the given levels.
func NewFakeReader(levels []logic.Level) *FakeReader {
	return &FakeReader{Levels: levels}
}

// Read returns the next scripted level.
// If levels are exhausted, returns the last level repeatedly.
func (f *FakeReader) Read() (logic.Level, error) {
	f.Reads++
	if f.ReadError != nil {
		return logic.Low, f.ReadError
	}

	if len(f.Levels) == 0 {
		return logic.Low, errors.New("no levels configured")
	}

	level := f.Levels[f.index]
	if f.index < len(f.Levels)-1 {
		f.index++
	}

	return level, nil
}

// Close marks the reader as closed.
func (f *FakeReader) Close() error {
	f.Closed = true
	return nil
}

// Reset resets the reader to the beginning of levels.
func (f *FakeReader) Reset() {
	f.index = 0
	f.Reads = 0
	f.Closed = false
}

// FakeWriter is a test double that records driven levels.
type FakeWriter struct {
	// Writes contains every level passed to Write, in order.
	Writes []logic.Level

	// WriteError, if set, will be returned by Write() without recording.
	WriteError error

	// Closed tracks if Close was called
	Closed bool
}

// NewFakeWriter creates an empty FakeWriter.
func NewFakeWriter() *FakeWriter {
	return &FakeWriter{}
}

// Write records level.
func (f *FakeWriter) Write(level logic.Level) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	f.Writes = append(f.Writes, level)
	return nil
}

// Close marks the writer as closed.
func (f *FakeWriter) Close() error {
	f.Closed = true
	return nil
}

// Last returns the most recently written level and whether any write happened.
func (f *FakeWriter) Last() (logic.Level, bool) {
	if len(f.Writes) == 0 {
		return logic.Low, false
	}
	return f.Writes[len(f.Writes)-1], true
}
