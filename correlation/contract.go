package correlation

// CompletionContract states which downstream milestone resolves a pending
// completion entry.
type CompletionContract int

const (
	// SendOnly completes once the transport acknowledges the send. Entries
	// with this contract never reach the registry; the send outcome itself
	// resolves the caller's handle.
	SendOnly CompletionContract = iota

	// EventHandled completes when the consumer reports the command executed
	// and its domain event persisted.
	EventHandled

	// ProcessCompleted completes only after the domain event has been fully
	// processed downstream. Also the contract for process-initiating sends.
	ProcessCompleted
)

// String returns the contract name for logs.
func (c CompletionContract) String() string {
	switch c {
	case SendOnly:
		return "send_only"
	case EventHandled:
		return "event_handled"
	case ProcessCompleted:
		return "process_completed"
	default:
		return "unknown"
	}
}
