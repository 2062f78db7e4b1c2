package analog

import (
	"errors"

	"periph.io/x/conn/v3/analog"
)

// FakeADC is a test double that returns scripted converter counts.
type FakeADC struct {
	// Counts contains scripted raw values. Each Read consumes the next one;
	// the last repeats once they run out.
	Counts []int32

	// Bits is the converter resolution reported by Range.
	Bits int

	// ScaleMV is millivolts per count.
	ScaleMV float64

	// ReadError, if set, will be returned by Read.
	ReadError error

	// OnRead, if set, is called after every Read.
	OnRead func(n int)

	Reads  int
	Closed bool
	index  int
}

// NewFakeADC creates a 10-bit FakeADC with the given counts.
func NewFakeADC(counts []int32) *FakeADC {
	return &FakeADC{Counts: counts, Bits: 10}
}

// Read returns the next scripted count.
func (f *FakeADC) Read() (analog.Sample, error) {
	f.Reads++
	if f.OnRead != nil {
		defer f.OnRead(f.Reads)
	}
	if f.ReadError != nil {
		return analog.Sample{}, f.ReadError
	}
	if len(f.Counts) == 0 {
		return analog.Sample{}, errors.New("no counts configured")
	}
	raw := f.Counts[f.index]
	if f.index < len(f.Counts)-1 {
		f.index++
	}
	return sample(raw, f.ScaleMV), nil
}

// Range returns the zero and full-scale samples.
func (f *FakeADC) Range() (analog.Sample, analog.Sample) {
	return sample(0, f.ScaleMV), sample(maxRaw(f.Bits), f.ScaleMV)
}

// Close marks the fake as closed.
func (f *FakeADC) Close() error {
	f.Closed = true
	return nil
}
