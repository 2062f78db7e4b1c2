package logic

// DefaultRampSteps gives a 0.01 duty increment per step.
const DefaultRampSteps = 100

// Ramp is a sawtooth duty-cycle generator. Duty starts at 0.0 and rises by
// 1/steps on each Advance, resetting to 0.0 once it would reach 1.0.
//
// The position is kept as an integer step index so that duty(n) is exactly
// (n mod steps)/steps no matter how many steps have run.
type Ramp struct {
	steps  int
	pos    int
	total  int
	cycles int
}

// NewRamp creates a ramp with the given number of steps per cycle.
// Values below 1 fall back to DefaultRampSteps.
func NewRamp(steps int) *Ramp {
	if steps < 1 {
		steps = DefaultRampSteps
	}
	return &Ramp{steps: steps}
}

// Duty returns the current duty cycle in [0.0, 1.0).
func (r *Ramp) Duty() float64 {
	return float64(r.pos) / float64(r.steps)
}

// Step returns the index of the current duty within the ramp.
func (r *Ramp) Step() int {
	return r.pos
}

// Advance moves to the next duty value and reports whether the ramp wrapped
// back to 0.0.
func (r *Ramp) Advance() bool {
	r.total++
	r.pos++
	if r.pos >= r.steps {
		r.pos = 0
		r.cycles++
		return true
	}
	return false
}

// Total returns the number of Advance calls since creation.
func (r *Ramp) Total() int {
	return r.total
}

// Cycles returns how many times the ramp has wrapped.
func (r *Ramp) Cycles() int {
	return r.cycles
}
