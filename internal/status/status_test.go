package status

import (
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sweeney/board-samples/internal/logic"
)

func TestNewTracker(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cfg := Config{Board: "generic", IntervalMs: 1000, HTTPAddr: ":8080"}
	tr := NewTracker(logic.KindDigitalIn, 13, start, cfg)

	snap := tr.Snapshot()
	if !snap.StartTime.Equal(start) {
		t.Errorf("StartTime: got %v, want %v", snap.StartTime, start)
	}
	if snap.Kind != logic.KindDigitalIn {
		t.Errorf("Kind: got %q, want digital-in", snap.Kind)
	}
	if snap.Pin != 13 {
		t.Errorf("Pin: got %d, want 13", snap.Pin)
	}
	if snap.Config.IntervalMs != 1000 {
		t.Errorf("Config.IntervalMs: got %d, want 1000", snap.Config.IntervalMs)
	}
	if snap.Last != nil {
		t.Error("expected no reading initially")
	}
	if snap.MQTTConnected {
		t.Error("expected MQTTConnected=false initially")
	}
}

func TestUpdateAndSnapshot(t *testing.T) {
	tr := NewTracker(logic.KindAnalog, 2, time.Now(), Config{})

	r := logic.Reading{Kind: logic.KindAnalog, Pin: 2, Raw: 512, Value: 1.65}
	tr.Update(r, logic.Counts{Samples: 3, Faults: 1})

	snap := tr.Snapshot()
	if snap.Last == nil {
		t.Fatal("expected a reading")
	}
	if snap.Last.Raw != 512 {
		t.Errorf("Last.Raw: got %d, want 512", snap.Last.Raw)
	}
	if snap.Counts.Samples != 3 {
		t.Errorf("Counts.Samples: got %d, want 3", snap.Counts.Samples)
	}
	if snap.Counts.Faults != 1 {
		t.Errorf("Counts.Faults: got %d, want 1", snap.Counts.Faults)
	}
}

func TestSetCounts(t *testing.T) {
	tr := NewTracker(logic.KindAnalog, 2, time.Now(), Config{})
	tr.Update(logic.Reading{Raw: 1}, logic.Counts{Samples: 1})
	tr.SetCounts(logic.Counts{Samples: 1, Faults: 4})

	snap := tr.Snapshot()
	if snap.Counts.Faults != 4 {
		t.Errorf("Counts.Faults: got %d, want 4", snap.Counts.Faults)
	}
	if snap.Last == nil || snap.Last.Raw != 1 {
		t.Error("SetCounts should keep the last reading")
	}
}

func TestSetMQTTConnected(t *testing.T) {
	tr := NewTracker(logic.KindPWM, 3, time.Now(), Config{})

	tr.SetMQTTConnected(true)
	if !tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=true")
	}

	tr.SetMQTTConnected(false)
	if tr.Snapshot().MQTTConnected {
		t.Error("expected MQTTConnected=false")
	}
}

func TestSnapshotUptime(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tr := NewTracker(logic.KindPWM, 3, start, Config{})
	tr.now = func() time.Time { return start.Add(90 * time.Second) }

	if got := tr.Snapshot().Uptime(); got != 90*time.Second {
		t.Errorf("Uptime: got %v, want 90s", got)
	}
}

func TestSnapshotNowIsSet(t *testing.T) {
	tr := NewTracker(logic.KindPWM, 3, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Config{})

	before := time.Now()
	snap := tr.Snapshot()
	after := time.Now()

	if snap.Now.Before(before) || snap.Now.After(after) {
		t.Errorf("Now (%v) not between %v and %v", snap.Now, before, after)
	}
}

func TestSnapshotIsCopy(t *testing.T) {
	tr := NewTracker(logic.KindDigitalIn, 13, time.Now(), Config{})
	tr.Update(logic.Reading{Raw: 1}, logic.Counts{Samples: 1})

	snap1 := tr.Snapshot()
	snap1.Last.Raw = 99

	tr.Update(logic.Reading{Raw: 0}, logic.Counts{Samples: 2})

	snap2 := tr.Snapshot()
	if snap2.Last.Raw != 0 {
		t.Errorf("Last.Raw: got %d, want 0", snap2.Last.Raw)
	}
	if snap1.Counts.Samples != 1 {
		t.Error("snapshot should be a copy; counts were modified")
	}
}

func TestFormatJSON(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Kind: logic.KindPWM,
		Pin:  3,
		Last: &logic.Reading{
			Timestamp: start.Add(time.Minute),
			Raw:       25,
			Value:     0.25,
		},
		Counts:        logic.Counts{Samples: 1200, Cycles: 12},
		StartTime:     start,
		Now:           start.Add(15 * time.Minute),
		MQTTConnected: true,
		Config: Config{
			Board:      "generic",
			Driver:     "sysfs",
			IntervalMs: 50,
			Broker:     "tcp://localhost:1883",
			Encoding:   "json",
		},
	}

	var parsed StatusJSON
	if err := json.Unmarshal(FormatJSON(snap), &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	s := parsed.Status
	if s.Kind != "pwm" {
		t.Errorf("Kind: got %q, want pwm", s.Kind)
	}
	if s.Pin != 3 {
		t.Errorf("Pin: got %d, want 3", s.Pin)
	}
	if s.Last == nil || s.Last.Value != 0.25 || s.Last.Raw != 25 {
		t.Errorf("Last: got %+v", s.Last)
	}
	if s.UptimeSeconds != 900 {
		t.Errorf("UptimeSeconds: got %d, want 900", s.UptimeSeconds)
	}
	if s.StartTime != "2026-01-01T00:00:00Z" {
		t.Errorf("StartTime: got %q", s.StartTime)
	}
	if !s.MQTT.Connected || s.MQTT.Broker != "tcp://localhost:1883" {
		t.Errorf("MQTT: got %+v", s.MQTT)
	}
	if s.Counts.Samples != 1200 || s.Counts.Cycles != 12 {
		t.Errorf("Counts: got %+v", s.Counts)
	}
	if s.Config.IntervalMs != 50 || s.Config.Driver != "sysfs" {
		t.Errorf("Config: got %+v", s.Config)
	}
	if s.Event != "" || s.Reason != "" {
		t.Error("web JSON should not carry event/reason")
	}
}

func TestFormatJSONNoReading(t *testing.T) {
	snap := Snapshot{Kind: logic.KindAnalog, Pin: 2}
	data := FormatJSON(snap)
	if strings.Contains(string(data), `"last"`) {
		t.Errorf("expected no last field before the first reading: %s", data)
	}
}

func TestFormatStatusEvent(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	snap := Snapshot{Kind: logic.KindDigitalOut, Pin: 13, StartTime: start, Now: start}

	data := FormatStatusEvent(snap, "SHUTDOWN", "SIGTERM")

	var parsed StatusJSON
	if err := json.Unmarshal(data, &parsed); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if parsed.Status.Event != "SHUTDOWN" {
		t.Errorf("Event: got %q, want SHUTDOWN", parsed.Status.Event)
	}
	if parsed.Status.Reason != "SIGTERM" {
		t.Errorf("Reason: got %q, want SIGTERM", parsed.Status.Reason)
	}
	if strings.Contains(string(data), "\n") {
		t.Error("event payload should be compact")
	}
}

func TestFormatStatusEventOmitsReasonWhenEmpty(t *testing.T) {
	data := FormatStatusEvent(Snapshot{}, "STARTUP", "")
	if strings.Contains(string(data), `"reason"`) {
		t.Errorf("expected no reason field: %s", data)
	}
}

func TestConcurrentAccess(t *testing.T) {
	tr := NewTracker(logic.KindAnalog, 2, time.Now(), Config{})
	var wg sync.WaitGroup

	// Writer
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			tr.Update(logic.Reading{Raw: i}, logic.Counts{Samples: i})
			tr.SetMQTTConnected(i%2 == 0)
		}
	}()

	// Reader
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			snap := tr.Snapshot()
			_ = snap.Uptime()
			_ = FormatJSON(snap)
		}
	}()

	wg.Wait()
}
