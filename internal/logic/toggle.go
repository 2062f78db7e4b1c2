package logic

// Toggle produces a strictly alternating level sequence for a blinker,
// starting High.
type Toggle struct {
	next Level
}

// NewToggle creates a Toggle whose first level is High.
func NewToggle() *Toggle {
	return &Toggle{next: High}
}

// Next returns the level to drive now and flips the one after it.
func (t *Toggle) Next() Level {
	l := t.next
	if l == High {
		t.next = Low
	} else {
		t.next = High
	}
	return l
}

// EdgeCounter counts level changes on a sampled digital input.
// The first observation sets the baseline and is never a transition.
type EdgeCounter struct {
	last      Level
	baselined bool
	rising    int
	falling   int
}

// Observe records a sample and reports whether it differs from the previous one.
func (e *EdgeCounter) Observe(l Level) bool {
	if !e.baselined {
		e.last = l
		e.baselined = true
		return false
	}
	if l == e.last {
		return false
	}
	if l == High {
		e.rising++
	} else {
		e.falling++
	}
	e.last = l
	return true
}

// Rising returns the number of Low to High transitions.
func (e *EdgeCounter) Rising() int { return e.rising }

// Falling returns the number of High to Low transitions.
func (e *EdgeCounter) Falling() int { return e.falling }

// Transitions returns the total number of transitions.
func (e *EdgeCounter) Transitions() int { return e.rising + e.falling }
