package correlation

// CommandReply is published by the consuming side on the command-executed
// reply topic once a command has been executed.
type CommandReply struct {
	CommandID    string `json:"command_id"`
	AggregateID  string `json:"aggregate_id"`
	Status       int    `json:"status"`
	Result       string `json:"result,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

// EventReply is published on the domain-event-handled reply topic once the
// command's domain event has been fully processed downstream.
type EventReply struct {
	CommandID    string `json:"command_id"`
	AggregateID  string `json:"aggregate_id"`
	Status       int    `json:"status"`
	Result       string `json:"result,omitempty"`
	ErrorMessage string `json:"error_message,omitempty"`
}

const (
	replyStatusSuccess = 0
	replyStatusFailed  = 1
)

func statusFromReply(code int) ResultStatus {
	if code == replyStatusSuccess {
		return ResultSuccess
	}
	return ResultFailed
}
