package correlation

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	wmmessage "github.com/ThreeDotsLabs/watermill/message"

	"github.com/relaybus-org/go-gateway/logger"
	"github.com/relaybus-org/go-gateway/message"
)

var (
	errListenerSubscriberNil = errors.New("correlation: subscriber is required")
	errListenerTableNil      = errors.New("correlation: table is required")
	errListenerStarted       = errors.New("correlation: listener already started")
)

// Listener consumes the two reply topics and resolves table entries. It is
// the reply-side demultiplexer between the message bus and the correlation
// table.
type Listener struct {
	sub   wmmessage.Subscriber
	table *Table
	codec message.Codec
	log   logger.Logger

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewListener wires a listener over an existing subscriber. Reply payloads
// are decoded with the JSON wire codec.
func NewListener(sub wmmessage.Subscriber, table *Table, log logger.Logger) (*Listener, error) {
	if sub == nil {
		return nil, errListenerSubscriberNil
	}
	if table == nil {
		return nil, errListenerTableNil
	}
	if log == nil {
		log = logger.NewDefault()
	}

	return &Listener{
		sub:   sub,
		table: table,
		codec: message.NewJSONCodec(),
		log:   log,
	}, nil
}

// Run subscribes to both reply topics and pumps replies into the table
// until ctx is cancelled or Close is called.
func (l *Listener) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.started {
		l.mu.Unlock()
		return errListenerStarted
	}
	l.started = true

	ctx, l.cancel = context.WithCancel(ctx)
	l.mu.Unlock()

	topics := l.table.ReplyTopics()

	executed, err := l.sub.Subscribe(ctx, topics.CommandExecuted)
	if err != nil {
		return err
	}

	handled, err := l.sub.Subscribe(ctx, topics.EventHandled)
	if err != nil {
		return err
	}

	l.wg.Add(2)

	go func() {
		defer l.wg.Done()
		l.pump(executed, l.onCommandExecuted)
	}()

	go func() {
		defer l.wg.Done()
		l.pump(handled, l.onEventHandled)
	}()

	return nil
}

// Close stops the pumps and waits for them to drain.
func (l *Listener) Close() error {
	l.mu.Lock()
	cancel := l.cancel
	l.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	l.wg.Wait()

	return nil
}

func (l *Listener) pump(msgs <-chan *wmmessage.Message, handle func(*wmmessage.Message)) {
	for msg := range msgs {
		handle(msg)
		msg.Ack()
	}
}

func (l *Listener) onCommandExecuted(msg *wmmessage.Message) {
	var reply CommandReply
	if err := l.codec.Unmarshal(msg.Payload, &reply); err != nil {
		l.log.Error("malformed command-executed reply",
			slog.String("message_uuid", msg.UUID),
			slog.String("error", err.Error()),
		)
		return
	}

	l.table.OnCommandExecuted(reply)
}

func (l *Listener) onEventHandled(msg *wmmessage.Message) {
	var reply EventReply
	if err := l.codec.Unmarshal(msg.Payload, &reply); err != nil {
		l.log.Error("malformed event-handled reply",
			slog.String("message_uuid", msg.UUID),
			slog.String("error", err.Error()),
		)
		return
	}

	l.table.OnEventHandled(reply)
}
