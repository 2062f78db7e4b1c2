package mqtt

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/sweeney/board-samples/internal/logic"
)

var testReading = logic.Reading{
	Timestamp: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
	Kind:      logic.KindPWM,
	Pin:       3,
	Raw:       42,
	Value:     0.42,
}

func TestTopics(t *testing.T) {
	if got := Topic(logic.KindAnalog); got != "board-samples/analog/readings" {
		t.Errorf("Topic: got %q", got)
	}
	if got := SystemTopic(logic.KindDigitalOut); got != "board-samples/digital-out/system" {
		t.Errorf("SystemTopic: got %q", got)
	}
}

func TestFormatPayloadJSON(t *testing.T) {
	data, err := FormatPayload(testReading, EncodingJSON)
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}

	var p Payload
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if p.Reading.Timestamp != "2026-01-15T10:30:00Z" {
		t.Errorf("timestamp: got %q", p.Reading.Timestamp)
	}
	if p.Reading.Kind != "pwm" {
		t.Errorf("kind: got %q, want pwm", p.Reading.Kind)
	}
	if p.Reading.Pin != 3 || p.Reading.Raw != 42 || p.Reading.Value != 0.42 {
		t.Errorf("reading: got %+v", p.Reading)
	}
	if !strings.HasPrefix(string(data), `{"reading":{`) {
		t.Errorf("unexpected JSON layout: %s", data)
	}
}

func TestFormatPayloadCBOR(t *testing.T) {
	data, err := FormatPayload(testReading, EncodingCBOR)
	if err != nil {
		t.Fatalf("FormatPayload: %v", err)
	}
	if json.Valid(data) {
		t.Fatal("CBOR payload should not be JSON")
	}

	var p Payload
	if err := cbor.Unmarshal(data, &p); err != nil {
		t.Fatalf("cbor unmarshal: %v", err)
	}
	if p.Reading.Kind != "pwm" || p.Reading.Raw != 42 || p.Reading.Value != 0.42 {
		t.Errorf("reading: got %+v", p.Reading)
	}
}

func TestParseEncoding(t *testing.T) {
	tests := []struct {
		in      string
		want    Encoding
		wantErr bool
	}{
		{"", EncodingJSON, false},
		{"json", EncodingJSON, false},
		{"cbor", EncodingCBOR, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseEncoding(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseEncoding(%q): err = %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("ParseEncoding(%q): got %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatSystemPayload(t *testing.T) {
	data, err := FormatSystemPayload(SystemEvent{
		Timestamp: time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC),
		Event:     "SHUTDOWN",
		Reason:    "SIGTERM",
	})
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}
	want := `{"system":{"timestamp":"2026-01-15T10:30:00Z","event":"SHUTDOWN","reason":"SIGTERM"}}`
	if string(data) != want {
		t.Errorf("got %s\nwant %s", data, want)
	}
}

func TestFormatSystemPayloadOmitsEmptyReason(t *testing.T) {
	data, _ := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "STARTUP"})
	if strings.Contains(string(data), "reason") {
		t.Errorf("expected no reason field: %s", data)
	}
}

func TestFormatSystemPayloadRaw(t *testing.T) {
	raw := []byte(`{"status":{}}`)
	data, err := FormatSystemPayload(SystemEvent{Event: "HEARTBEAT", RawPayload: raw})
	if err != nil {
		t.Fatalf("FormatSystemPayload: %v", err)
	}
	if string(data) != string(raw) {
		t.Errorf("expected raw payload passthrough, got %s", data)
	}
}

func TestClientIDUnique(t *testing.T) {
	a := clientID(logic.KindAnalog)
	b := clientID(logic.KindAnalog)
	if a == b {
		t.Errorf("client IDs should differ: %q", a)
	}
	if !strings.HasPrefix(a, "board-samples-analog-") {
		t.Errorf("client ID prefix: %q", a)
	}
}

func TestFakePublisherRecords(t *testing.T) {
	f := NewFakePublisher()
	f.Encoding = EncodingCBOR

	if err := f.Publish(testReading); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err != nil {
		t.Fatalf("PublishSystem: %v", err)
	}

	if len(f.Readings) != 1 || len(f.Payloads) != 1 {
		t.Fatalf("expected 1 reading, got %d/%d", len(f.Readings), len(f.Payloads))
	}
	var p Payload
	if err := cbor.Unmarshal(f.Payloads[0], &p); err != nil {
		t.Errorf("fake should encode with its Encoding: %v", err)
	}
	if names := f.SystemEventNames(); len(names) != 1 || names[0] != "STARTUP" {
		t.Errorf("system events: got %v", names)
	}
}

func TestFakePublisherErrors(t *testing.T) {
	f := NewFakePublisher()
	f.PublishError = errors.New("broker down")
	f.PublishSystemError = errors.New("broker down")

	if err := f.Publish(testReading); err == nil {
		t.Error("expected Publish error")
	}
	if err := f.PublishSystem(SystemEvent{Event: "STARTUP"}); err == nil {
		t.Error("expected PublishSystem error")
	}
	if len(f.Readings) != 0 || len(f.SystemEvents) != 0 {
		t.Error("failed publishes should not be recorded")
	}
}
