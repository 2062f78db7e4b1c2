// Package status provides a thread-safe status tracker for a running sample.
// It is read by HTTP handlers and lifecycle events while the sample loop writes it.
package status

import (
	"sync"
	"time"

	"github.com/sweeney/board-samples/internal/logic"
)

// Config contains sample configuration for display.
type Config struct {
	Board      string
	Driver     string
	IntervalMs int64
	Broker     string
	Encoding   string
	HTTPAddr   string
}

// Snapshot is a point-in-time view of sample state.
// It is a value type, safe to use after the lock is released.
type Snapshot struct {
	Kind          logic.Kind
	Pin           int
	Last          *logic.Reading
	Counts        logic.Counts
	StartTime     time.Time
	Now           time.Time
	MQTTConnected bool
	Config        Config
}

// Uptime returns the duration since the sample started.
func (s Snapshot) Uptime() time.Duration {
	return s.Now.Sub(s.StartTime)
}

// Tracker holds mutable sample state behind an RWMutex.
type Tracker struct {
	mu   sync.RWMutex
	snap Snapshot
	now  func() time.Time
}

// NewTracker creates a Tracker for one pin.
func NewTracker(kind logic.Kind, pin int, startTime time.Time, cfg Config) *Tracker {
	return &Tracker{
		snap: Snapshot{
			Kind:      kind,
			Pin:       pin,
			StartTime: startTime,
			Config:    cfg,
		},
		now: time.Now,
	}
}

// Update sets the latest reading and counters.
// Called from the sample loop on every iteration.
func (t *Tracker) Update(last logic.Reading, counts logic.Counts) {
	t.mu.Lock()
	t.snap.Last = &last
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetCounts sets the counters without a new reading (e.g. after a fault).
func (t *Tracker) SetCounts(counts logic.Counts) {
	t.mu.Lock()
	t.snap.Counts = counts
	t.mu.Unlock()
}

// SetMQTTConnected sets the MQTT connection status.
func (t *Tracker) SetMQTTConnected(connected bool) {
	t.mu.Lock()
	t.snap.MQTTConnected = connected
	t.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the sample state.
// The Now field is set to the current time at the moment of the call.
func (t *Tracker) Snapshot() Snapshot {
	t.mu.RLock()
	s := t.snap
	if s.Last != nil {
		last := *s.Last
		s.Last = &last
	}
	t.mu.RUnlock()
	s.Now = t.now()
	return s
}
