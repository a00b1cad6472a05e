package natsmq

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/relaybus-org/go-gateway/config"
	"github.com/relaybus-org/go-gateway/transport"
)

// HeaderRoutingKey carries the partition affinity key; core NATS has no
// partitions, so consumers that need ordering read it from the header.
const HeaderRoutingKey = "Relaybus-Routing-Key"

var errNotStarted = errors.New("natsmq: publisher is not started")

// Config - configuration
type Config struct {
	URI          string
	FlushTimeout time.Duration
}

// Publisher is a NATS-backed transport publisher.
type Publisher struct {
	mu     sync.Mutex
	client *nats.Conn
	config *Config
}

// New creates a NATS publisher from configuration.
func New(cfg *config.Config) *Publisher {
	return &Publisher{config: loadConfig(cfg)}
}

func loadConfig(cfg *config.Config) *Config {
	cfg.SetDefault("MQ_NATS_URI", nats.DefaultURL) // NATS server URI
	cfg.SetDefault("MQ_NATS_FLUSH_TIMEOUT_SECONDS", 5)

	return &Config{
		URI:          cfg.GetString("MQ_NATS_URI"),
		FlushTimeout: time.Duration(cfg.GetInt("MQ_NATS_FLUSH_TIMEOUT_SECONDS")) * time.Second,
	}
}

// Start connects to the NATS server.
func (p *Publisher) Start(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client != nil {
		return nil
	}

	client, err := nats.Connect(p.config.URI)
	if err != nil {
		return err
	}

	p.client = client

	return nil
}

// Publish sends the payload and flushes the connection so that transport
// errors surface as a failed outcome instead of staying buffered.
func (p *Publisher) Publish(_ context.Context, topic string, payload []byte, routingKey string) transport.Outcome {
	p.mu.Lock()
	client := p.client
	p.mu.Unlock()

	if client == nil {
		return transport.OutcomeFrom(errNotStarted)
	}

	msg := &nats.Msg{
		Subject: topic,
		Data:    payload,
		Header:  nats.Header{HeaderRoutingKey: []string{routingKey}},
	}

	if err := client.PublishMsg(msg); err != nil {
		return transport.OutcomeFrom(err)
	}

	if err := client.FlushTimeout(p.config.FlushTimeout); err != nil {
		return transport.OutcomeFrom(err)
	}

	if err := client.LastError(); err != nil {
		return transport.OutcomeFrom(err)
	}

	return transport.Outcome{Status: transport.SendSuccess}
}

// PublishAsync sends without blocking the caller.
func (p *Publisher) PublishAsync(ctx context.Context, topic string, payload []byte, routingKey string) <-chan transport.Outcome {
	out := make(chan transport.Outcome, 1)

	go func() {
		out <- p.Publish(ctx, topic, payload, routingKey)
		close(out)
	}()

	return out
}

// Close drains and closes the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.client == nil {
		return nil
	}

	err := p.client.Drain()
	p.client = nil

	return err
}
