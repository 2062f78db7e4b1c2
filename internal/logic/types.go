// Package logic contains the pure sampling and driving logic for the board samples.
// This package has NO external dependencies (no GPIO, MQTT, OS, or time.Sleep).
// Time is always injectable via time.Time parameters.
package logic

import (
	"strconv"
	"time"
)

// Kind identifies which sample program produced a reading.
type Kind string

const (
	KindAnalog     Kind = "analog"
	KindDigitalIn  Kind = "digital-in"
	KindDigitalOut Kind = "digital-out"
	KindPWM        Kind = "pwm"
)

// Level is a binary digital level.
type Level int

const (
	Low  Level = 0
	High Level = 1
)

// LevelFromInt maps a raw line value to a Level: 0 is Low, anything else is High.
func LevelFromInt(v int) Level {
	if v == 0 {
		return Low
	}
	return High
}

// String returns "0" or "1".
func (l Level) String() string {
	return strconv.Itoa(int(l))
}

// Reading is a single value sampled from, or driven onto, a pin.
type Reading struct {
	Timestamp time.Time
	Kind      Kind
	Pin       int
	// Raw is the converter count (analog), the level (digital) or the
	// step index within the current ramp (pwm).
	Raw int
	// Value is volts (analog), the level (digital) or the duty cycle (pwm).
	Value float64
}

// Counts tracks what a program has done since startup.
type Counts struct {
	Samples     int
	Faults      int
	Transitions int
	Cycles      int
}
