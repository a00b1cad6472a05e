package gateway

import (
	"fmt"

	"github.com/relaybus-org/go-gateway/message"
)

// verify is the pure validation gate executed before any network or
// registry interaction.
func verify(cmd message.Command) error {
	if cmd == nil {
		return errCommandNil
	}

	if cmd.CommandID() == "" {
		return fmt.Errorf("%w: empty command id", ErrInvalidCommand)
	}

	// Creating commands target an aggregate that does not exist yet.
	if cmd.AggregateID() == "" && !message.IsCreating(cmd) {
		return fmt.Errorf("%w: empty aggregate id for %T", ErrInvalidCommand, cmd)
	}

	return nil
}
