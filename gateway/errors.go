package gateway

import "errors"

var (
	// ErrInvalidCommand indicates a local precondition violation, raised
	// before any network or registry interaction.
	ErrInvalidCommand = errors.New("gateway: invalid command")

	// ErrCommandSendFailed indicates the transport reported a failed publish
	// on the blocking send path.
	ErrCommandSendFailed = errors.New("gateway: command send failed")

	errPublisherNil = errors.New("gateway: publisher is required")
	errRegistryNil  = errors.New("gateway: correlation registry is required")
	errTypeCodesNil = errors.New("gateway: type code registry is required")
	errCommandNil   = errors.New("gateway: command is nil")
)
