package status

import (
	"encoding/json"
	"time"
)

// StatusJSON is the top-level JSON envelope for status output.
type StatusJSON struct {
	Status StatusInner `json:"status"`
}

// StatusInner contains the status details.
type StatusInner struct {
	Event         string       `json:"event,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Kind          string       `json:"kind"`
	Pin           int          `json:"pin"`
	Last          *ReadingJSON `json:"last,omitempty"`
	UptimeSeconds int64        `json:"uptime_seconds"`
	StartTime     string       `json:"start_time"`
	Timestamp     string       `json:"timestamp"`
	MQTT          MQTTStatus   `json:"mqtt"`
	Counts        CountsJSON   `json:"counts"`
	Config        ConfigJSON   `json:"config"`
}

// ReadingJSON is the JSON representation of the latest reading.
type ReadingJSON struct {
	Timestamp string  `json:"timestamp"`
	Raw       int     `json:"raw"`
	Value     float64 `json:"value"`
}

// MQTTStatus reports MQTT connection state.
type MQTTStatus struct {
	Connected bool   `json:"connected"`
	Broker    string `json:"broker,omitempty"`
}

// CountsJSON is the JSON representation of sample counters.
type CountsJSON struct {
	Samples     int `json:"samples"`
	Faults      int `json:"faults"`
	Transitions int `json:"transitions"`
	Cycles      int `json:"cycles"`
}

// ConfigJSON is the JSON representation of sample config.
type ConfigJSON struct {
	Board      string `json:"board"`
	Driver     string `json:"driver,omitempty"`
	IntervalMs int64  `json:"interval_ms"`
	Broker     string `json:"broker,omitempty"`
	Encoding   string `json:"encoding,omitempty"`
	HTTPAddr   string `json:"http_addr,omitempty"`
}

func buildInner(snap Snapshot) StatusInner {
	inner := StatusInner{
		Kind:          string(snap.Kind),
		Pin:           snap.Pin,
		UptimeSeconds: int64(snap.Uptime().Truncate(time.Second).Seconds()),
		StartTime:     snap.StartTime.UTC().Format(time.RFC3339),
		Timestamp:     snap.Now.UTC().Format(time.RFC3339),
		MQTT:          MQTTStatus{Connected: snap.MQTTConnected, Broker: snap.Config.Broker},
		Counts: CountsJSON{
			Samples:     snap.Counts.Samples,
			Faults:      snap.Counts.Faults,
			Transitions: snap.Counts.Transitions,
			Cycles:      snap.Counts.Cycles,
		},
		Config: ConfigJSON{
			Board:      snap.Config.Board,
			Driver:     snap.Config.Driver,
			IntervalMs: snap.Config.IntervalMs,
			Broker:     snap.Config.Broker,
			Encoding:   snap.Config.Encoding,
			HTTPAddr:   snap.Config.HTTPAddr,
		},
	}
	if snap.Last != nil {
		inner.Last = &ReadingJSON{
			Timestamp: snap.Last.Timestamp.UTC().Format(time.RFC3339Nano),
			Raw:       snap.Last.Raw,
			Value:     snap.Last.Value,
		}
	}
	return inner
}

// FormatJSON returns the JSON status for the web endpoint (no event/reason).
func FormatJSON(snap Snapshot) []byte {
	data, _ := json.MarshalIndent(StatusJSON{Status: buildInner(snap)}, "", "  ")
	return data
}

// FormatStatusEvent returns the JSON status for an MQTT system event.
func FormatStatusEvent(snap Snapshot, event, reason string) []byte {
	inner := buildInner(snap)
	inner.Event = event
	inner.Reason = reason

	data, _ := json.Marshal(StatusJSON{Status: inner})
	return data
}
