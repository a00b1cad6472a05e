package message

import (
	"strings"
	"unicode"
)

const defaultTopicPrefix = "relaybus.command"

// TopicRouter resolves the destination topic for a command.
type TopicRouter interface {
	TopicFor(cmd Command) string
}

// RoutingKeyer derives the transport routing key for a command. Commands with
// the same key land in the same partition, which gives per-aggregate ordering.
type RoutingKeyer interface {
	RoutingKeyFor(cmd Command) string
}

// TypeNameRouter maps a command to a topic derived from its Go type name,
// e.g. *TransferFunds -> "relaybus.command.transfer_funds".
type TypeNameRouter struct {
	prefix string
}

// NewTypeNameRouter creates a router with the given topic prefix.
func NewTypeNameRouter(prefix string) *TypeNameRouter {
	if strings.TrimSpace(prefix) == "" {
		prefix = defaultTopicPrefix
	}
	return &TypeNameRouter{prefix: strings.ToLower(strings.TrimSpace(prefix))}
}

// TopicFor resolves the topic name for a command.
func (r *TypeNameRouter) TopicFor(cmd Command) string {
	return r.prefix + "." + camelToSnake(typeNameOf(cmd))
}

// AggregateKeyer keys by aggregate id, falling back to the command id for
// creating commands that have no aggregate yet.
type AggregateKeyer struct{}

// NewAggregateKeyer creates the default routing keyer.
func NewAggregateKeyer() *AggregateKeyer {
	return &AggregateKeyer{}
}

// RoutingKeyFor returns the partition affinity key for a command.
func (k *AggregateKeyer) RoutingKeyFor(cmd Command) string {
	if id := cmd.AggregateID(); id != "" {
		return id
	}
	return cmd.CommandID()
}

func camelToSnake(s string) string {
	if s == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(s))
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func typeNameOf(v any) string {
	if v == nil {
		return ""
	}

	t := normalizeType(v)
	if t == nil {
		return ""
	}

	return t.Elem().Name()
}
