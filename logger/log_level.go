package logger

const (
	// ERROR_LEVEL is used for errors that should definitely be noted.
	ERROR_LEVEL = iota
	// WARN_LEVEL is used for non-critical entries that deserve eyes.
	WARN_LEVEL
	// INFO_LEVEL is the default logging priority.
	INFO_LEVEL
	// DEBUG_LEVEL is used for verbose debug-only output.
	DEBUG_LEVEL
)
