package correlation

import (
	"github.com/relaybus-org/go-gateway/message"
)

// Registry is the keyed store of pending completions. The dispatcher
// registers entries before publishing; the reply listener resolves them.
// Implementations must resolve each entry exactly once even under
// concurrent success/failure/timeout races.
type Registry interface {
	// RegisterCommand creates a pending entry keyed by the command id.
	// It fails when a live entry for the same id already exists.
	RegisterCommand(cmd message.Command, contract CompletionContract, handle *Future[CommandResult]) error

	// RegisterProcess creates a pending entry in the process table.
	RegisterProcess(cmd message.Command, handle *Future[ProcessResult]) error

	// NotifyCommandSendFailed resolves the matching entry with a failure
	// result. Unknown ids are a logged anomaly, not an error.
	NotifyCommandSendFailed(cmd message.Command)

	// NotifyProcessSendFailed is the process analogue.
	NotifyProcessSendFailed(cmd message.Command)

	// ReplyTopics exposes the topics the registry's listener consumes.
	// The envelope builder copies them into every outgoing payload.
	ReplyTopics() message.ReplyTopics
}
