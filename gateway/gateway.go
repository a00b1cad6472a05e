/*
Package gateway is the asynchronous command-dispatch core: it validates
commands, serializes them into wire envelopes, publishes them on the message
bus, and registers pending correlation entries for callers that await an
out-of-band result.
*/
package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/relaybus-org/go-gateway/correlation"
	"github.com/relaybus-org/go-gateway/logger"
	"github.com/relaybus-org/go-gateway/message"
	"github.com/relaybus-org/go-gateway/transport"
)

// Options bundles the gateway's explicit dependencies.
type Options struct {
	// Publisher is required: the message-bus transport.
	Publisher transport.Publisher
	// Registry is required: the correlation collaborator.
	Registry correlation.Registry
	// TypeCodes is required: the command type-code registry.
	TypeCodes *message.TypeCodes

	// Codec defaults to JSON.
	Codec message.Codec
	// TopicRouter defaults to the type-name router.
	TopicRouter message.TopicRouter
	// RoutingKeyer defaults to aggregate-id affinity.
	RoutingKeyer message.RoutingKeyer
	// Logger defaults to the JSON stdout logger.
	Logger logger.Logger
}

// Gateway dispatches commands onto the message bus with three completion
// contracts: fire-and-forget, send-acknowledgement-only, and logical
// completion through the correlation registry.
type Gateway struct {
	publisher transport.Publisher
	registry  correlation.Registry
	builder   *message.Builder
	log       logger.Logger
}

// New wires a gateway from explicit dependencies. The registry's reply
// topics are captured once here; envelopes carry that immutable snapshot.
func New(opts Options) (*Gateway, error) {
	if opts.Publisher == nil {
		return nil, errPublisherNil
	}
	if opts.Registry == nil {
		return nil, errRegistryNil
	}
	if opts.TypeCodes == nil {
		return nil, errTypeCodesNil
	}

	codec := opts.Codec
	if codec == nil {
		codec = message.NewJSONCodec()
	}

	router := opts.TopicRouter
	if router == nil {
		router = message.NewTypeNameRouter("")
	}

	keyer := opts.RoutingKeyer
	if keyer == nil {
		keyer = message.NewAggregateKeyer()
	}

	log := opts.Logger
	if log == nil {
		log = logger.NewDefault()
	}

	builder, err := message.NewBuilder(codec, opts.TypeCodes, router, keyer, opts.Registry.ReplyTopics())
	if err != nil {
		return nil, err
	}

	return &Gateway{
		publisher: opts.Publisher,
		registry:  opts.Registry,
		builder:   builder,
		log:       log,
	}, nil
}

// Send publishes a command and blocks for the transport's immediate send
// acknowledgement only. The caller gets no application-level result.
func (g *Gateway) Send(ctx context.Context, cmd message.Command) error {
	env, err := g.prepare(cmd)
	if err != nil {
		return err
	}

	outcome := g.publisher.Publish(ctx, env.Topic, env.Body, env.RoutingKey)
	if outcome.Failed() {
		return fmt.Errorf("%w: %s", ErrCommandSendFailed, outcome.ErrorMessage)
	}

	return nil
}

// SendAsync publishes without blocking the caller. The returned handle
// resolves once the transport confirms or denies the send itself; it never
// waits for downstream logical execution.
func (g *Gateway) SendAsync(ctx context.Context, cmd message.Command) (*correlation.Future[transport.Outcome], error) {
	env, err := g.prepare(cmd)
	if err != nil {
		return nil, err
	}

	handle := correlation.NewFuture[transport.Outcome]()
	outcomes := g.publisher.PublishAsync(ctx, env.Topic, env.Body, env.RoutingKey)

	go func() {
		outcome, ok := <-outcomes
		if !ok {
			outcome = transport.Outcome{
				Status:       transport.SendFailed,
				ErrorMessage: "transport closed the outcome channel",
			}
		}

		handle.Resolve(outcome)
	}()

	return handle, nil
}

// Execute dispatches a tracked command. The pending entry is registered
// BEFORE the publish is issued, which closes the race where a reply could
// arrive before the entry exists. If the publish itself fails, the registry
// is notified so it can resolve the handle; the gateway never resolves the
// handle itself.
func (g *Gateway) Execute(ctx context.Context, cmd message.Command, contract correlation.CompletionContract) (*correlation.Future[correlation.CommandResult], error) {
	env, err := g.prepare(cmd)
	if err != nil {
		return nil, err
	}

	handle := correlation.NewFuture[correlation.CommandResult]()
	if err := g.registry.RegisterCommand(cmd, contract, handle); err != nil {
		return nil, err
	}

	outcomes := g.publisher.PublishAsync(ctx, env.Topic, env.Body, env.RoutingKey)

	go func() {
		outcome, ok := <-outcomes
		if ok && !outcome.Failed() {
			return
		}

		g.log.WarnWithContext(ctx, "tracked command publish failed",
			slog.String("command_id", cmd.CommandID()),
			slog.String("topic", env.Topic),
			slog.String("error", outcome.ErrorMessage),
		)

		g.registry.NotifyCommandSendFailed(cmd)
	}()

	return handle, nil
}

// StartProcess dispatches a command that kicks off a multi-step process.
// Identical shape to Execute, against the registry's process table.
func (g *Gateway) StartProcess(ctx context.Context, cmd message.Command) (*correlation.Future[correlation.ProcessResult], error) {
	env, err := g.prepare(cmd)
	if err != nil {
		return nil, err
	}

	handle := correlation.NewFuture[correlation.ProcessResult]()
	if err := g.registry.RegisterProcess(cmd, handle); err != nil {
		return nil, err
	}

	outcomes := g.publisher.PublishAsync(ctx, env.Topic, env.Body, env.RoutingKey)

	go func() {
		outcome, ok := <-outcomes
		if ok && !outcome.Failed() {
			return
		}

		g.log.WarnWithContext(ctx, "process command publish failed",
			slog.String("command_id", cmd.CommandID()),
			slog.String("topic", env.Topic),
			slog.String("error", outcome.ErrorMessage),
		)

		g.registry.NotifyProcessSendFailed(cmd)
	}()

	return handle, nil
}

// Start brings up the underlying transport.
func (g *Gateway) Start(ctx context.Context) error {
	return g.publisher.Start(ctx)
}

// Shutdown releases the underlying transport.
func (g *Gateway) Shutdown(_ context.Context) error {
	return g.publisher.Close()
}

func (g *Gateway) prepare(cmd message.Command) (message.Envelope, error) {
	if err := verify(cmd); err != nil {
		return message.Envelope{}, err
	}

	return g.builder.Build(cmd)
}
