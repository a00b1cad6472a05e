/*
Package transport abstracts the message-bus publish operation. The gateway
treats every broker as a black box returning a send outcome; connection
management, partitioning, and delivery retries live behind this interface.
*/
package transport

import "context"

// SendStatus is the transport-level result of one publish attempt.
type SendStatus int

const (
	SendSuccess SendStatus = iota
	SendFailed
)

// String returns the status name for logs.
func (s SendStatus) String() string {
	if s == SendSuccess {
		return "success"
	}
	return "failed"
}

// Outcome is the result of a publish attempt: network-level delivery
// acknowledgement only, never logical execution.
type Outcome struct {
	Status       SendStatus
	ErrorMessage string
}

// Failed reports whether the publish attempt failed.
func (o Outcome) Failed() bool {
	return o.Status == SendFailed
}

// OutcomeFrom converts a publish error into an Outcome.
func OutcomeFrom(err error) Outcome {
	if err != nil {
		return Outcome{Status: SendFailed, ErrorMessage: err.Error()}
	}
	return Outcome{Status: SendSuccess}
}

// Publisher is the transport capability the gateway depends on.
type Publisher interface {
	// Publish blocks for the transport's immediate send acknowledgement.
	Publish(ctx context.Context, topic string, payload []byte, routingKey string) Outcome

	// PublishAsync returns a channel delivering exactly one Outcome once the
	// transport confirms or denies the send.
	PublishAsync(ctx context.Context, topic string, payload []byte, routingKey string) <-chan Outcome

	// Start brings up the underlying connection.
	Start(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
