package mqtt

import (
	"fmt"
	"log"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"

	"github.com/sweeney/board-samples/internal/logic"
)

// bufferCapacity bounds the readings kept while disconnected.
const bufferCapacity = 256

// Connection timings. Shortened in tests.
var (
	connectTimeout       = 10 * time.Second
	connectRetryInterval = 5 * time.Second
)

// RealPublisher publishes to an actual MQTT broker.
type RealPublisher struct {
	client paho.Client
	kind   logic.Kind
	enc    Encoding

	mu  sync.Mutex
	buf *ringBuffer
}

// NewRealPublisher creates a publisher connected to the given broker.
// A retained OFFLINE event is registered as the last will so subscribers
// see the sample go away even if it is killed.
func NewRealPublisher(broker string, kind logic.Kind, enc Encoding) (*RealPublisher, error) {
	p := &RealPublisher{
		kind: kind,
		enc:  enc,
		buf:  newRingBuffer(bufferCapacity),
	}

	will, err := FormatSystemPayload(SystemEvent{Timestamp: time.Now(), Event: "OFFLINE", Reason: "LWT"})
	if err != nil {
		return nil, fmt.Errorf("format will: %w", err)
	}

	opts := paho.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID(kind)).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(connectRetryInterval).
		SetWill(SystemTopic(kind), string(will), 1, true).
		SetOnConnectHandler(func(paho.Client) { p.flush() }).
		SetConnectionLostHandler(func(_ paho.Client, err error) {
			log.Printf("mqtt: connection lost: %v", err)
		})

	p.client = paho.NewClient(opts)
	token := p.client.Connect()
	// The client keeps retrying in the background until it is disconnected.
	if !token.WaitTimeout(connectTimeout) {
		p.client.Disconnect(0)
		return nil, fmt.Errorf("connection timeout")
	}
	if err := token.Error(); err != nil {
		p.client.Disconnect(0)
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	return p, nil
}

// clientID is unique per process so two samples on one host do not kick
// each other off the broker.
func clientID(kind logic.Kind) string {
	return fmt.Sprintf("board-samples-%s-%s", kind, uuid.New().String()[:8])
}

// Publish sends a reading to the MQTT broker. While the connection is down the
// reading is buffered and replayed on reconnect.
func (p *RealPublisher) Publish(r logic.Reading) error {
	payload, err := FormatPayload(r, p.enc)
	if err != nil {
		return fmt.Errorf("format payload: %w", err)
	}

	msg := bufferedMsg{topic: Topic(p.kind), payload: payload}
	if !p.client.IsConnectionOpen() {
		p.mu.Lock()
		p.buf.push(msg)
		p.mu.Unlock()
		return nil
	}
	return p.send(msg)
}

// send publishes at QoS 0 (at-most-once), not retained.
func (p *RealPublisher) send(msg bufferedMsg) error {
	token := p.client.Publish(msg.topic, 0, false, msg.payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish: %w", err)
	}
	return nil
}

// flush replays buffered readings. Called by paho on every (re)connect.
func (p *RealPublisher) flush() {
	p.mu.Lock()
	msgs := p.buf.drainAll()
	p.mu.Unlock()

	for _, msg := range msgs {
		if err := p.send(msg); err != nil {
			log.Printf("mqtt: replay error: %v", err)
			return
		}
	}
}

// PublishSystem sends a system lifecycle event to the MQTT broker.
func (p *RealPublisher) PublishSystem(event SystemEvent) error {
	payload, err := FormatSystemPayload(event)
	if err != nil {
		return fmt.Errorf("format system payload: %w", err)
	}

	// QoS 1 (at-least-once) for lifecycle events - we want to ensure delivery
	token := p.client.Publish(SystemTopic(p.kind), 1, event.Retained, payload)
	if !token.WaitTimeout(5 * time.Second) {
		return fmt.Errorf("publish system timeout")
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish system: %w", err)
	}

	return nil
}

// IsConnected reports whether the client currently holds a broker connection.
func (p *RealPublisher) IsConnected() bool {
	return p.client.IsConnectionOpen()
}

// Close disconnects from the broker.
func (p *RealPublisher) Close() error {
	p.client.Disconnect(1000) // 1 second timeout
	return nil
}
