package mqtt

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sweeney/board-samples/internal/logic"
)

// bufferedReading builds the message Publish would queue for a pwm step.
func bufferedReading(t *testing.T, step int) bufferedMsg {
	t.Helper()
	r := logic.Reading{
		Timestamp: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC).Add(time.Duration(step) * 50 * time.Millisecond),
		Kind:      logic.KindPWM,
		Pin:       3,
		Raw:       step,
		Value:     float64(step) * 0.01,
	}
	payload, err := FormatPayload(r, EncodingJSON)
	if err != nil {
		t.Fatalf("format step %d: %v", step, err)
	}
	return bufferedMsg{topic: Topic(logic.KindPWM), payload: payload}
}

// steps decodes the ramp step of each replayed message.
func steps(t *testing.T, msgs []bufferedMsg) []int {
	t.Helper()
	out := make([]int, len(msgs))
	for i, m := range msgs {
		var p Payload
		if err := json.Unmarshal(m.payload, &p); err != nil {
			t.Fatalf("decode message %d: %v", i, err)
		}
		out[i] = p.Reading.Raw
	}
	return out
}

func equalInts(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestBufferEmptyWhileConnected(t *testing.T) {
	rb := newRingBuffer(bufferCapacity)
	if got := rb.drainAll(); got != nil {
		t.Errorf("expected nothing to replay, got %d readings", len(got))
	}
	if rb.len() != 0 {
		t.Errorf("len: got %d, want 0", rb.len())
	}
}

func TestBufferReplaysReadingsInOrder(t *testing.T) {
	rb := newRingBuffer(8)
	for step := 0; step < 5; step++ {
		rb.push(bufferedReading(t, step))
	}
	if rb.len() != 5 {
		t.Fatalf("len: got %d, want 5", rb.len())
	}

	got := rb.drainAll()
	if want := []int{0, 1, 2, 3, 4}; !equalInts(steps(t, got), want) {
		t.Errorf("replayed steps: got %v, want %v", steps(t, got), want)
	}
	for i, m := range got {
		if m.topic != "board-samples/pwm/readings" {
			t.Errorf("message %d topic: got %q", i, m.topic)
		}
	}
	if again := rb.drainAll(); again != nil {
		t.Errorf("second replay: got %d readings, want none", len(again))
	}
}

func TestBufferKeepsNewestDuringLongOutage(t *testing.T) {
	// A 50ms ramp outrunning a 4-slot buffer: only the last four steps survive.
	rb := newRingBuffer(4)
	for step := 0; step < 10; step++ {
		rb.push(bufferedReading(t, step))
	}
	if rb.dropped != 6 {
		t.Errorf("dropped: got %d, want 6", rb.dropped)
	}

	got := steps(t, rb.drainAll())
	if want := []int{6, 7, 8, 9}; !equalInts(got, want) {
		t.Errorf("replayed steps: got %v, want %v", got, want)
	}
	if rb.dropped != 0 {
		t.Errorf("dropped after replay: got %d, want 0", rb.dropped)
	}
}

func TestBufferExactlyFull(t *testing.T) {
	rb := newRingBuffer(3)
	for step := 97; step < 100; step++ {
		rb.push(bufferedReading(t, step))
	}
	if rb.dropped != 0 {
		t.Errorf("dropped: got %d, want 0", rb.dropped)
	}
	if got, want := steps(t, rb.drainAll()), []int{97, 98, 99}; !equalInts(got, want) {
		t.Errorf("replayed steps: got %v, want %v", got, want)
	}
}

func TestBufferAcrossReconnects(t *testing.T) {
	rb := newRingBuffer(4)

	// First outage wraps the buffer.
	for step := 0; step < 6; step++ {
		rb.push(bufferedReading(t, step))
	}
	if got, want := steps(t, rb.drainAll()), []int{2, 3, 4, 5}; !equalInts(got, want) {
		t.Errorf("first replay: got %v, want %v", got, want)
	}

	// Second, shorter outage starts from a clean buffer.
	for step := 20; step < 23; step++ {
		rb.push(bufferedReading(t, step))
	}
	if got, want := steps(t, rb.drainAll()), []int{20, 21, 22}; !equalInts(got, want) {
		t.Errorf("second replay: got %v, want %v", got, want)
	}
}

func TestBufferPreservesPayloadBytes(t *testing.T) {
	rb := newRingBuffer(2)
	msg := bufferedReading(t, 42)
	rb.push(msg)

	got := rb.drainAll()
	if len(got) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(got))
	}
	if string(got[0].payload) != string(msg.payload) {
		t.Errorf("payload: got %s, want %s", got[0].payload, msg.payload)
	}

	var p Payload
	if err := json.Unmarshal(got[0].payload, &p); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if p.Reading.Kind != "pwm" || p.Reading.Pin != 3 || p.Reading.Raw != 42 {
		t.Errorf("reading: got %+v", p.Reading)
	}
}
