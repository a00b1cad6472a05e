package message

import (
	"errors"
	"fmt"
)

var (
	errBuilderCodecNil  = errors.New("message: codec is required")
	errBuilderCodesNil  = errors.New("message: type code registry is required")
	errBuilderRouterNil = errors.New("message: topic router is required")
	errBuilderKeyerNil  = errors.New("message: routing keyer is required")
)

// ReplyTopics is the immutable snapshot of the correlation collaborator's
// reply channels, captured once at builder construction.
type ReplyTopics struct {
	CommandExecuted string
	EventHandled    string
}

// Builder turns a command into a transport-ready envelope. It performs no
// I/O and is deterministic for a fixed codec and registry state.
type Builder struct {
	codec  Codec
	wire   Codec
	codes  *TypeCodes
	router TopicRouter
	keyer  RoutingKeyer
	reply  ReplyTopics
}

// NewBuilder wires a builder from explicit dependencies. The command body is
// serialized with codec; the outer Payload is always encoded as JSON so that
// consumers can read the reply topics without knowing the body codec.
func NewBuilder(codec Codec, codes *TypeCodes, router TopicRouter, keyer RoutingKeyer, reply ReplyTopics) (*Builder, error) {
	if codec == nil {
		return nil, errBuilderCodecNil
	}
	if codes == nil {
		return nil, errBuilderCodesNil
	}
	if router == nil {
		return nil, errBuilderRouterNil
	}
	if keyer == nil {
		return nil, errBuilderKeyerNil
	}

	return &Builder{
		codec:  codec,
		wire:   NewJSONCodec(),
		codes:  codes,
		router: router,
		keyer:  keyer,
		reply:  reply,
	}, nil
}

// Build serializes cmd into an Envelope.
func (b *Builder) Build(cmd Command) (Envelope, error) {
	body, err := b.codec.Marshal(cmd)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal command %T: %w", cmd, err)
	}

	code, err := b.codes.CodeFor(cmd)
	if err != nil {
		return Envelope{}, err
	}

	payload := Payload{
		Command:                   EncodeTagged(code, body),
		CommandExecutedReplyTopic: b.reply.CommandExecuted,
		EventHandledReplyTopic:    b.reply.EventHandled,
	}

	wire, err := b.wire.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal payload for %T: %w", cmd, err)
	}

	return Envelope{
		Topic:      b.router.TopicFor(cmd),
		Body:       wire,
		RoutingKey: b.keyer.RoutingKeyFor(cmd),
	}, nil
}

// Open is the inverse of Build's payload step: it decodes the outer Payload
// and splits the tagged command blob. Used by the consuming side and tests.
func (b *Builder) Open(body []byte) (Payload, uint32, []byte, error) {
	var payload Payload
	if err := b.wire.Unmarshal(body, &payload); err != nil {
		return Payload{}, 0, nil, fmt.Errorf("unmarshal payload: %w", err)
	}

	code, cmdBody, err := DecodeTagged(payload.Command)
	if err != nil {
		return Payload{}, 0, nil, err
	}

	return payload, code, cmdBody, nil
}
