package kafka

import (
	"context"
	"errors"
	"sync"

	"github.com/IBM/sarama"

	"github.com/relaybus-org/go-gateway/config"
	"github.com/relaybus-org/go-gateway/transport"
)

var errNotStarted = errors.New("kafka: publisher is not started")

// Config - configuration
type Config struct {
	Brokers []string
}

// Publisher is a Kafka-backed transport publisher. The blocking path uses a
// sync producer; the async path uses an async producer whose success/error
// streams are demultiplexed back to per-message outcome channels.
type Publisher struct {
	mu     sync.Mutex
	sync   sarama.SyncProducer
	async  sarama.AsyncProducer
	config *Config
	wg     sync.WaitGroup
}

// New creates a Kafka publisher from configuration.
func New(cfg *config.Config) *Publisher {
	return &Publisher{config: loadConfig(cfg)}
}

func loadConfig(cfg *config.Config) *Config {
	cfg.SetDefault("MQ_KAFKA_URI", []string{"localhost:9092"}) // Kafka brokers

	return &Config{
		Brokers: cfg.GetStringSlice("MQ_KAFKA_URI"),
	}
}

// Start creates both producers.
func (p *Publisher) Start(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.sync != nil {
		return nil
	}

	cfg := sarama.NewConfig()
	cfg.Producer.RequiredAcks = sarama.WaitForAll
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.Partitioner = sarama.NewHashPartitioner

	syncProducer, err := sarama.NewSyncProducer(p.config.Brokers, cfg)
	if err != nil {
		return err
	}

	asyncProducer, err := sarama.NewAsyncProducer(p.config.Brokers, cfg)
	if err != nil {
		_ = syncProducer.Close()
		return err
	}

	p.sync = syncProducer
	p.async = asyncProducer

	p.wg.Add(2)
	go p.collectSuccesses(asyncProducer)
	go p.collectErrors(asyncProducer)

	return nil
}

// Publish sends the payload keyed by the routing key and waits for the
// broker acknowledgement.
func (p *Publisher) Publish(_ context.Context, topic string, payload []byte, routingKey string) transport.Outcome {
	p.mu.Lock()
	producer := p.sync
	p.mu.Unlock()

	if producer == nil {
		return transport.OutcomeFrom(errNotStarted)
	}

	_, _, err := producer.SendMessage(&sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(routingKey),
		Value: sarama.ByteEncoder(payload),
	})

	return transport.OutcomeFrom(err)
}

// PublishAsync enqueues the message on the async producer. The outcome
// arrives once the broker acknowledges or rejects the send.
func (p *Publisher) PublishAsync(_ context.Context, topic string, payload []byte, routingKey string) <-chan transport.Outcome {
	out := make(chan transport.Outcome, 1)

	p.mu.Lock()
	producer := p.async
	p.mu.Unlock()

	if producer == nil {
		out <- transport.OutcomeFrom(errNotStarted)
		close(out)
		return out
	}

	producer.Input() <- &sarama.ProducerMessage{
		Topic:    topic,
		Key:      sarama.StringEncoder(routingKey),
		Value:    sarama.ByteEncoder(payload),
		Metadata: out,
	}

	return out
}

func (p *Publisher) collectSuccesses(producer sarama.AsyncProducer) {
	defer p.wg.Done()

	for msg := range producer.Successes() {
		if out, ok := msg.Metadata.(chan transport.Outcome); ok {
			out <- transport.Outcome{Status: transport.SendSuccess}
			close(out)
		}
	}
}

func (p *Publisher) collectErrors(producer sarama.AsyncProducer) {
	defer p.wg.Done()

	for producerErr := range producer.Errors() {
		if out, ok := producerErr.Msg.Metadata.(chan transport.Outcome); ok {
			out <- transport.OutcomeFrom(producerErr.Err)
			close(out)
		}
	}
}

// Close shuts both producers down and waits for the collectors to drain.
func (p *Publisher) Close() error {
	p.mu.Lock()
	syncProducer := p.sync
	asyncProducer := p.async
	p.sync = nil
	p.async = nil
	p.mu.Unlock()

	if syncProducer == nil {
		return nil
	}

	asyncProducer.AsyncClose()
	p.wg.Wait()

	return syncProducer.Close()
}
