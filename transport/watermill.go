package transport

import (
	"context"
	"errors"

	wmmessage "github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/relaybus-org/go-gateway/message"
)

var errWatermillPublisherNil = errors.New("transport: watermill publisher is required")

// WatermillPublisher adapts any Watermill publisher (gochannel, kafka, amqp,
// nats backends) to the gateway's transport contract. The routing key rides
// in message metadata for backends that support partition affinity.
type WatermillPublisher struct {
	pub wmmessage.Publisher
}

// NewWatermillPublisher wraps an existing Watermill publisher.
func NewWatermillPublisher(pub wmmessage.Publisher) (*WatermillPublisher, error) {
	if pub == nil {
		return nil, errWatermillPublisherNil
	}
	return &WatermillPublisher{pub: pub}, nil
}

// Publish sends one message and blocks for the send acknowledgement.
func (p *WatermillPublisher) Publish(ctx context.Context, topic string, payload []byte, routingKey string) Outcome {
	msg := wmmessage.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set(message.MetadataPartitionKey, routingKey)
	message.SetTrace(ctx, msg)

	return OutcomeFrom(p.pub.Publish(topic, msg))
}

// PublishAsync sends without blocking the caller; the outcome arrives on the
// returned channel.
func (p *WatermillPublisher) PublishAsync(ctx context.Context, topic string, payload []byte, routingKey string) <-chan Outcome {
	out := make(chan Outcome, 1)

	go func() {
		out <- p.Publish(ctx, topic, payload, routingKey)
		close(out)
	}()

	return out
}

// Start is a no-op: Watermill publishers connect at construction.
func (p *WatermillPublisher) Start(_ context.Context) error {
	return nil
}

// Close closes the underlying publisher.
func (p *WatermillPublisher) Close() error {
	return p.pub.Close()
}
