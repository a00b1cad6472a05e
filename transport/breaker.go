package transport

import (
	"context"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerPublisher decorates a Publisher with a circuit breaker so a dead
// broker fails fast instead of stacking blocked publishers.
type BreakerPublisher struct {
	inner   Publisher
	breaker *gobreaker.CircuitBreaker
}

// NewBreakerPublisher wraps inner with the given settings. Zero-value
// settings fall back to the defaults.
func NewBreakerPublisher(inner Publisher, settings *gobreaker.Settings) *BreakerPublisher {
	cfg := defaultBreakerSettings()
	if settings != nil {
		cfg = *settings
	}

	return &BreakerPublisher{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker(cfg),
	}
}

func defaultBreakerSettings() gobreaker.Settings {
	return gobreaker.Settings{
		Name:        "transport-publish",
		MaxRequests: 1,
		Interval:    0,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

// Publish runs the inner publish through the breaker. An open breaker is
// reported as a failed outcome, same as any other transport failure.
func (p *BreakerPublisher) Publish(ctx context.Context, topic string, payload []byte, routingKey string) Outcome {
	result, err := p.breaker.Execute(func() (any, error) {
		outcome := p.inner.Publish(ctx, topic, payload, routingKey)
		if outcome.Failed() {
			return outcome, errPublishFailed(outcome)
		}
		return outcome, nil
	})
	if err != nil {
		if outcome, ok := result.(Outcome); ok {
			return outcome
		}
		return OutcomeFrom(err)
	}

	return result.(Outcome)
}

// PublishAsync runs the breaker-guarded publish on a separate goroutine.
func (p *BreakerPublisher) PublishAsync(ctx context.Context, topic string, payload []byte, routingKey string) <-chan Outcome {
	out := make(chan Outcome, 1)

	go func() {
		out <- p.Publish(ctx, topic, payload, routingKey)
		close(out)
	}()

	return out
}

// Start starts the inner publisher.
func (p *BreakerPublisher) Start(ctx context.Context) error {
	return p.inner.Start(ctx)
}

// Close closes the inner publisher.
func (p *BreakerPublisher) Close() error {
	return p.inner.Close()
}

type publishError struct {
	outcome Outcome
}

func errPublishFailed(outcome Outcome) error {
	return publishError{outcome: outcome}
}

func (e publishError) Error() string {
	if e.outcome.ErrorMessage != "" {
		return e.outcome.ErrorMessage
	}
	return "publish failed"
}
