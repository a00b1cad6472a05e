package message

// Envelope is the transport-ready wire unit for one command.
type Envelope struct {
	// Topic is the destination channel.
	Topic string
	// Body is the serialized Payload.
	Body []byte
	// RoutingKey carries partition/ordering affinity for the transport.
	RoutingKey string
}

// Payload is the outer wire structure: the type-tagged command blob plus the
// reply topics the correlation collaborator listens on. The consuming side
// publishes its replies to these topics.
type Payload struct {
	Command                   []byte `json:"command"`
	CommandExecutedReplyTopic string `json:"command_executed_reply_topic"`
	EventHandledReplyTopic    string `json:"event_handled_reply_topic"`
}
