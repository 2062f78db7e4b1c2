package app

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/sweeney/board-samples/internal/board"
	"github.com/sweeney/board-samples/internal/discovery"
	"github.com/sweeney/board-samples/internal/logic"
	"github.com/sweeney/board-samples/internal/mqtt"
	"github.com/sweeney/board-samples/internal/sampler"
	"github.com/sweeney/board-samples/internal/status"
	"github.com/sweeney/board-samples/internal/web"
)

// newPublisher connects to the broker. Replaced in tests.
var newPublisher = func(broker string, kind logic.Kind, enc mqtt.Encoding) (mqtt.Publisher, error) {
	p, err := mqtt.NewRealPublisher(broker, kind, enc)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Services are the optional side channels of one running sample.
type Services struct {
	Kind    logic.Kind
	Pin     int
	Tracker *status.Tracker

	// Publisher is nil when MQTT is disabled.
	Publisher  mqtt.Publisher
	mqttStatus mqtt.ConnectionStatus

	srv       *web.Server
	httpAddr  net.Addr
	adv       *discovery.Advertiser
	heartbeat *time.Ticker
	maxFaults int
}

// Start creates the status tracker and brings up whichever of MQTT, HTTP and
// mDNS the options enable. A STARTUP event is published once MQTT is up.
// interval is the loop delay, shown in status output.
func Start(kind logic.Kind, pin int, interval time.Duration, opts *Options, prof board.Profile) (*Services, error) {
	enc, err := mqtt.ParseEncoding(opts.Format)
	if err != nil {
		return nil, err
	}

	s := &Services{
		Kind:      kind,
		Pin:       pin,
		maxFaults: opts.MaxFaults,
		Tracker: status.NewTracker(kind, pin, time.Now(), status.Config{
			Board:      prof.Name,
			Driver:     opts.Driver,
			IntervalMs: interval.Milliseconds(),
			Broker:     opts.Broker,
			Encoding:   string(enc),
			HTTPAddr:   opts.HTTPAddr,
		}),
	}

	if opts.Broker != "" {
		pub, err := newPublisher(opts.Broker, kind, enc)
		if err != nil {
			return nil, fmt.Errorf("init mqtt: %w", err)
		}
		s.Publisher = pub
		if cs, ok := pub.(mqtt.ConnectionStatus); ok {
			s.mqttStatus = cs
			s.Tracker.SetMQTTConnected(cs.IsConnected())
		}
		s.publishSystem("STARTUP", "")

		if opts.Heartbeat > 0 {
			s.heartbeat = time.NewTicker(opts.Heartbeat)
		}
	}

	if opts.HTTPAddr != "" {
		if err := s.startHTTP(opts.HTTPAddr); err != nil {
			s.Close("ERROR")
			return nil, err
		}
		if opts.MDNS {
			s.startMDNS(prof.Name)
		}
	}

	log.Printf("started: kind=%s pin=%d board=%s driver=%s broker=%q http=%q",
		kind, pin, prof.Name, opts.Driver, opts.Broker, opts.HTTPAddr)
	return s, nil
}

func (s *Services) startHTTP(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen http: %w", err)
	}
	s.srv = web.New(addr, s.Tracker)
	s.httpAddr = ln.Addr()
	go func() {
		if err := s.srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			log.Printf("http server error: %v", err)
		}
	}()
	log.Printf("http status server listening on %s", s.httpAddr)
	return nil
}

// startMDNS advertises the status page. Failure is logged; the sample runs
// without it.
func (s *Services) startMDNS(boardName string) {
	tcp, ok := s.httpAddr.(*net.TCPAddr)
	if !ok {
		return
	}
	adv, err := discovery.Advertise(discovery.Info{
		Kind:  s.Kind,
		Pin:   s.Pin,
		Board: boardName,
		Port:  tcp.Port,
	})
	if err != nil {
		log.Printf("mdns: %v", err)
		return
	}
	s.adv = adv
	log.Printf("mdns: advertising %s on port %d", discovery.ServiceType, tcp.Port)
}

// HTTPAddr returns the address the status page listens on, or nil.
func (s *Services) HTTPAddr() net.Addr {
	return s.httpAddr
}

// Runner returns a sampler.Runner wired to these services and paced by tick.
func (s *Services) Runner(tick <-chan time.Time) *sampler.Runner {
	r := &sampler.Runner{
		Pin:       s.Pin,
		Tick:      tick,
		Tracker:   s.Tracker,
		MaxFaults: s.maxFaults,
	}
	if s.Publisher != nil {
		r.Publisher = s.Publisher
		r.MQTTStatus = s.mqttStatus
	}
	if s.heartbeat != nil {
		r.Heartbeat = s.heartbeat.C
	}
	return r
}

func (s *Services) publishSystem(event, reason string) {
	if s.mqttStatus != nil {
		s.Tracker.SetMQTTConnected(s.mqttStatus.IsConnected())
	}
	snap := s.Tracker.Snapshot()
	e := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      event,
		Reason:     reason,
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, event, reason),
	}
	if err := s.Publisher.PublishSystem(e); err != nil {
		log.Printf("failed to publish %s event: %v", event, err)
	} else {
		log.Printf("published %s event", event)
	}
}

// Close publishes a SHUTDOWN event with the given reason and releases
// everything Start brought up.
func (s *Services) Close(reason string) {
	if s.heartbeat != nil {
		s.heartbeat.Stop()
	}
	if s.adv != nil {
		s.adv.Shutdown()
	}
	if s.srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := s.srv.Shutdown(ctx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
		cancel()
	}
	if s.Publisher != nil {
		s.publishSystem("SHUTDOWN", reason)
		if err := s.Publisher.Close(); err != nil {
			log.Printf("mqtt close: %v", err)
		}
	}
}
