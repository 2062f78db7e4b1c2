// Package mqtt provides MQTT publishing of readings with abstraction for testing.
package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/sweeney/board-samples/internal/logic"
)

// TopicPrefix is the root of all topics published by the samples.
const TopicPrefix = "board-samples"

// Topic returns the topic readings of the given kind are published on.
func Topic(kind logic.Kind) string {
	return fmt.Sprintf("%s/%s/readings", TopicPrefix, kind)
}

// SystemTopic returns the topic for lifecycle events of the given kind.
func SystemTopic(kind logic.Kind) string {
	return fmt.Sprintf("%s/%s/system", TopicPrefix, kind)
}

// Publisher publishes readings to MQTT.
type Publisher interface {
	// Publish sends a reading to the broker.
	// Returns error if publishing fails (should not crash the process).
	Publish(r logic.Reading) error

	// PublishSystem sends a system lifecycle event to the broker.
	PublishSystem(event SystemEvent) error

	// Close disconnects from the broker.
	Close() error
}

// ConnectionStatus reports whether the MQTT connection is active.
type ConnectionStatus interface {
	IsConnected() bool
}

// Encoding selects the wire format of reading payloads.
type Encoding string

const (
	EncodingJSON Encoding = "json"
	EncodingCBOR Encoding = "cbor"
)

// ParseEncoding validates an encoding name. Empty means JSON.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(s) {
	case EncodingJSON, "":
		return EncodingJSON, nil
	case EncodingCBOR:
		return EncodingCBOR, nil
	}
	return "", fmt.Errorf("unknown encoding %q (want json or cbor)", s)
}

func (e Encoding) marshal(v any) ([]byte, error) {
	if e == EncodingCBOR {
		return cbor.Marshal(v)
	}
	return json.Marshal(v)
}

// SystemEvent represents a system lifecycle event (e.g., startup, shutdown, heartbeat).
type SystemEvent struct {
	Timestamp  time.Time
	Event      string // e.g., "STARTUP", "SHUTDOWN", "HEARTBEAT"
	Reason     string // e.g., "SIGTERM", "SIGINT", "ERROR" (shutdown only)
	RawPayload []byte // Pre-formatted JSON payload; if set, FormatSystemPayload returns it directly
	Retained   bool   // Whether the message should be retained by the broker
}

// Payload represents the MQTT message payload structure.
type Payload struct {
	Reading ReadingPayload `json:"reading" cbor:"reading"`
}

// ReadingPayload contains the reading details.
type ReadingPayload struct {
	Timestamp string  `json:"timestamp" cbor:"timestamp"`
	Kind      string  `json:"kind" cbor:"kind"`
	Pin       int     `json:"pin" cbor:"pin"`
	Raw       int     `json:"raw" cbor:"raw"`
	Value     float64 `json:"value" cbor:"value"`
}

// FormatPayload creates the payload for a reading in the given encoding.
func FormatPayload(r logic.Reading, enc Encoding) ([]byte, error) {
	payload := Payload{
		Reading: ReadingPayload{
			Timestamp: r.Timestamp.UTC().Format(time.RFC3339Nano),
			Kind:      string(r.Kind),
			Pin:       r.Pin,
			Raw:       r.Raw,
			Value:     r.Value,
		},
	}
	return enc.marshal(payload)
}

// SystemPayload represents the MQTT message payload for system events.
// Used for simple events (LWT) that don't carry a full status snapshot.
type SystemPayload struct {
	System SystemPayloadInner `json:"system"`
}

// SystemPayloadInner contains the system event details.
type SystemPayloadInner struct {
	Timestamp string `json:"timestamp"`
	Event     string `json:"event"`
	Reason    string `json:"reason,omitempty"`
}

// FormatSystemPayload creates the JSON payload for a system event.
// System events are always JSON so that any subscriber can read them.
// If event.RawPayload is set, it is returned directly (used for full status snapshots).
func FormatSystemPayload(event SystemEvent) ([]byte, error) {
	if event.RawPayload != nil {
		return event.RawPayload, nil
	}

	payload := SystemPayload{
		System: SystemPayloadInner{
			Timestamp: event.Timestamp.UTC().Format(time.RFC3339),
			Event:     event.Event,
			Reason:    event.Reason,
		},
	}
	return json.Marshal(payload)
}
