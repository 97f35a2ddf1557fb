// Package mqtt publishes playback frames to an MQTT broker.
package mqtt

import (
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/katalvlaran/gridpath/internal/config"
	"github.com/katalvlaran/gridpath/playback"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = 5 * time.Second
	frameQoS       = 0
)

// Message is the JSON payload of one published frame.
type Message struct {
	Session string `json:"session"`
	playback.Frame
}

// publisher is the part of paho.Client a Publisher uses.
type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
}

// Publisher turns playback frames into MQTT messages.
type Publisher struct {
	client publisher
	prefix string
	log    *slog.Logger

	mu   sync.Mutex
	conn paho.Client // nil when built around a bare publisher
}

// New builds a Publisher for cfg but does not connect.
func New(cfg config.MQTTConfig, logger *slog.Logger) *Publisher {
	opts := paho.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetKeepAlive(30 * time.Second)
	c := paho.NewClient(opts)
	p := newPublisher(c, cfg.TopicPrefix, logger)
	p.conn = c
	return p
}

func newPublisher(client publisher, prefix string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{client: client, prefix: strings.Trim(prefix, "/"), log: logger}
}

// Connect dials the broker, giving up after a bounded wait.
func (p *Publisher) Connect() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil {
		return nil
	}
	token := p.conn.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return &ConnectTimeoutError{}
	}
	return token.Error()
}

// Close disconnects from the broker.
func (p *Publisher) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil {
		p.conn.Disconnect(1000)
	}
}

// Topic returns "<prefix>/<session>/frames".
func (p *Publisher) Topic(session string) string {
	return Topic(p.prefix, session)
}

// Topic returns "<prefix>/<session>/frames"; an empty prefix is omitted.
func Topic(prefix, session string) string {
	if prefix = strings.Trim(prefix, "/"); prefix == "" {
		return session + "/frames"
	}
	return prefix + "/" + session + "/frames"
}

// Sink returns a playback.Sink publishing to session's topic. Publishing does
// not block the playback: delivery failures are logged.
func (p *Publisher) Sink(session string) playback.Sink {
	topic := p.Topic(session)
	return playback.SinkFunc(func(f playback.Frame) {
		payload, err := json.Marshal(Message{Session: session, Frame: f})
		if err != nil {
			p.log.Error("mqtt.encode_failed", "session", session, "seq", f.Seq, "err", err)
			return
		}
		token := p.client.Publish(topic, frameQoS, false, payload)
		go func() {
			if !token.WaitTimeout(publishTimeout) {
				p.log.Warn("mqtt.publish_timeout", "topic", topic, "seq", f.Seq)
				return
			}
			if err := token.Error(); err != nil {
				p.log.Warn("mqtt.publish_failed", "topic", topic, "seq", f.Seq, "err", err)
			}
		}()
	})
}

// ConnectTimeoutError indicates the broker did not answer in time.
type ConnectTimeoutError struct{}

func (e *ConnectTimeoutError) Error() string {
	return "mqtt connect timeout"
}
