// Package sampler runs the per-pin sample and drive loops.
//
// Each loop owns one device for its lifetime, checks the context on every
// iteration and returns nil when the context is cancelled. Hardware faults are
// classified by hwerr: transient faults are logged and counted, fatal faults end
// the loop with an error.
package sampler

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/sweeney/board-samples/internal/hwerr"
	"github.com/sweeney/board-samples/internal/logic"
	"github.com/sweeney/board-samples/internal/mqtt"
	"github.com/sweeney/board-samples/internal/status"
)

// Default loop timings.
const (
	DigitalInterval = time.Second
	PWMInterval     = 50 * time.Millisecond
	PWMPeriod       = 700 * time.Microsecond
)

// Runner holds what the loops share. Only Pin is required.
type Runner struct {
	Pin int

	// Tick paces the loop. A nil Tick means free running.
	Tick <-chan time.Time

	// Heartbeat, if set, triggers a HEARTBEAT system event on each receive.
	Heartbeat <-chan time.Time

	// Now defaults to time.Now.
	Now func() time.Time

	// Out receives one line per sample. Defaults to os.Stdout.
	Out io.Writer

	Publisher  mqtt.Publisher
	MQTTStatus mqtt.ConnectionStatus
	Tracker    *status.Tracker

	// MaxFaults ends the loop after this many consecutive transient faults.
	// Zero means never.
	MaxFaults int
}

// loop is the state of one running loop.
type loop struct {
	r           *Runner
	kind        logic.Kind
	counts      logic.Counts
	consecutive int
}

func (r *Runner) start(kind logic.Kind) *loop {
	if r.Now == nil {
		r.Now = time.Now
	}
	if r.Out == nil {
		r.Out = os.Stdout
	}
	return &loop{r: r, kind: kind}
}

func (l *loop) reading(raw int, value float64) logic.Reading {
	return logic.Reading{
		Timestamp: l.r.Now(),
		Kind:      l.kind,
		Pin:       l.r.Pin,
		Raw:       raw,
		Value:     value,
	}
}

// record counts a successful iteration and hands the reading to the
// publisher and tracker. If emit is set the raw value is printed.
func (l *loop) record(rd logic.Reading, emit bool) {
	l.counts.Samples++
	l.consecutive = 0

	if emit {
		fmt.Fprintln(l.r.Out, rd.Raw)
	}

	if l.r.Publisher != nil {
		if err := l.r.Publisher.Publish(rd); err != nil {
			log.Printf("publish error: %v", err)
		}
	}

	if l.r.Tracker != nil {
		l.r.Tracker.Update(rd, l.counts)
		if l.r.MQTTStatus != nil {
			l.r.Tracker.SetMQTTConnected(l.r.MQTTStatus.IsConnected())
		}
	}
}

// fault counts err and returns non-nil when the loop must stop.
func (l *loop) fault(err error) error {
	l.counts.Faults++
	if l.r.Tracker != nil {
		l.r.Tracker.SetCounts(l.counts)
	}

	if hwerr.IsFatal(err) {
		return err
	}

	l.consecutive++
	log.Printf("%s: transient fault %d: %v", l.kind, l.consecutive, err)
	if l.r.MaxFaults > 0 && l.consecutive >= l.r.MaxFaults {
		return fmt.Errorf("%d consecutive faults: %w", l.consecutive, err)
	}
	return nil
}

// wait blocks until the next tick and reports false once ctx is done.
// Heartbeats are handled while waiting.
func (l *loop) wait(ctx context.Context) bool {
	if l.r.Tick == nil {
		select {
		case <-ctx.Done():
			return false
		case <-l.r.Heartbeat:
			l.heartbeat()
		default:
		}
		return true
	}

	for {
		select {
		case <-ctx.Done():
			return false
		case <-l.r.Heartbeat:
			l.heartbeat()
		case <-l.r.Tick:
			return true
		}
	}
}

func (l *loop) heartbeat() {
	log.Printf("heartbeat: samples=%d faults=%d transitions=%d cycles=%d",
		l.counts.Samples, l.counts.Faults, l.counts.Transitions, l.counts.Cycles)

	if l.r.Publisher == nil {
		return
	}

	event := mqtt.SystemEvent{
		Timestamp: l.r.Now(),
		Event:     "HEARTBEAT",
	}
	if l.r.Tracker != nil {
		if l.r.MQTTStatus != nil {
			l.r.Tracker.SetMQTTConnected(l.r.MQTTStatus.IsConnected())
		}
		l.r.Tracker.SetCounts(l.counts)
		event.RawPayload = status.FormatStatusEvent(l.r.Tracker.Snapshot(), "HEARTBEAT", "")
	}
	if err := l.r.Publisher.PublishSystem(event); err != nil {
		log.Printf("heartbeat publish error: %v", err)
	}
}
