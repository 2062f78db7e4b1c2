package pwm

import "time"

// Fake is a test double that records what was driven. It applies the same
// argument checks as the real outputs.
type Fake struct {
	Channel int
	Period  time.Duration
	Enabled bool

	// Duties contains every duty passed to Write, in order.
	Duties []float64

	// WriteError, if set, will be returned by Write without recording.
	WriteError error

	// OnWrite, if set, is called after every successful Write with the
	// number of writes so far.
	OnWrite func(n int)

	Closed bool
}

// NewFake creates a Fake for the given channel.
func NewFake(channel int) *Fake {
	return &Fake{Channel: channel}
}

// SetPeriod records the period.
func (f *Fake) SetPeriod(period time.Duration) error {
	if err := checkPeriod(f.Channel, period); err != nil {
		return err
	}
	f.Period = period
	return nil
}

// Enable records the enable state.
func (f *Fake) Enable(on bool) error {
	f.Enabled = on
	return nil
}

// Write records duty.
func (f *Fake) Write(duty float64) error {
	if f.WriteError != nil {
		return f.WriteError
	}
	if err := checkDuty(f.Channel, duty); err != nil {
		return err
	}
	if f.Period == 0 {
		return errNoPeriod(f.Channel)
	}
	f.Duties = append(f.Duties, duty)
	if f.OnWrite != nil {
		f.OnWrite(len(f.Duties))
	}
	return nil
}

// Close disables and marks the fake closed.
func (f *Fake) Close() error {
	f.Enabled = false
	f.Closed = true
	return nil
}
