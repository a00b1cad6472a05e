package rabbit

import (
	"context"
	"errors"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/relaybus-org/go-gateway/config"
	"github.com/relaybus-org/go-gateway/transport"
)

var (
	errNotStarted = errors.New("rabbit: publisher is not started")
	errNacked     = errors.New("rabbit: broker nacked the publish")
)

// Config - configuration
type Config struct {
	URI      string
	Exchange string
}

// Publisher is a RabbitMQ-backed transport publisher using publisher
// confirms, so a send acknowledgement means the broker accepted the message.
type Publisher struct {
	mu      sync.Mutex
	conn    *amqp.Connection
	channel *amqp.Channel
	config  *Config
}

// New creates a RabbitMQ publisher from configuration.
func New(cfg *config.Config) *Publisher {
	return &Publisher{config: loadConfig(cfg)}
}

func loadConfig(cfg *config.Config) *Config {
	cfg.SetDefault("MQ_RABBIT_URI", "amqp://localhost:5672") // RabbitMQ URI
	cfg.SetDefault("MQ_RABBIT_EXCHANGE", "relaybus.commands")

	return &Config{
		URI:      cfg.GetString("MQ_RABBIT_URI"),
		Exchange: cfg.GetString("MQ_RABBIT_EXCHANGE"),
	}
}

// Start dials the broker, opens a confirm-mode channel, and declares the
// topic exchange.
func (p *Publisher) Start(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn != nil {
		return nil
	}

	conn, err := amqp.Dial(p.config.URI)
	if err != nil {
		return err
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return err
	}

	if err := channel.Confirm(false); err != nil {
		_ = conn.Close()
		return err
	}

	err = channel.ExchangeDeclare(
		p.config.Exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	)
	if err != nil {
		_ = conn.Close()
		return err
	}

	p.conn = conn
	p.channel = channel

	return nil
}

// Publish sends the payload with the topic as the AMQP routing key prefix
// and waits for the broker confirm.
func (p *Publisher) Publish(ctx context.Context, topic string, payload []byte, routingKey string) transport.Outcome {
	p.mu.Lock()
	channel := p.channel
	p.mu.Unlock()

	if channel == nil {
		return transport.OutcomeFrom(errNotStarted)
	}

	confirm, err := channel.PublishWithDeferredConfirmWithContext(
		ctx,
		p.config.Exchange,
		topic,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/octet-stream",
			Body:         payload,
			MessageId:    routingKey,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return transport.OutcomeFrom(err)
	}

	acked, err := confirm.WaitContext(ctx)
	if err != nil {
		return transport.OutcomeFrom(err)
	}
	if !acked {
		return transport.OutcomeFrom(errNacked)
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

// Close closes the channel and the connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}

	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}

	err := p.conn.Close()
	p.conn = nil

	return err
}
