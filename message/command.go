package message

// Command is a request to change system state. It is identified by a unique
// command id and routed by the id of the aggregate it targets.
type Command interface {
	CommandID() string
	AggregateID() string
}

// Creating marks a command whose execution is expected to create a new
// aggregate instance. Such commands carry no pre-existing aggregate id and
// are exempt from the aggregate id check during validation.
type Creating interface {
	Command

	// CreatesAggregate is a marker method; implementations leave it empty.
	CreatesAggregate()
}

// IsCreating reports whether cmd is tagged as a creating command.
func IsCreating(cmd Command) bool {
	_, ok := cmd.(Creating)
	return ok
}
