package correlation

// ResultStatus is the terminal state of a tracked command or process.
type ResultStatus int

const (
	ResultSuccess ResultStatus = iota
	ResultFailed
	ResultTimeout
)

// String returns the status name for logs.
func (s ResultStatus) String() string {
	switch s {
	case ResultSuccess:
		return "success"
	case ResultFailed:
		return "failed"
	case ResultTimeout:
		return "timeout"
	default:
		return "unknown"
	}
}

// CommandResult is the logical outcome of one tracked command.
type CommandResult struct {
	CommandID    string
	AggregateID  string
	Status       ResultStatus
	Result       string
	ErrorMessage string
}

// ProcessResult is the outcome of one tracked multi-step process.
type ProcessResult struct {
	CommandID    string
	AggregateID  string
	Status       ResultStatus
	ErrorMessage string
}
