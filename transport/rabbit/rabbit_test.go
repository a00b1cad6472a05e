package rabbit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/relaybus-org/go-gateway/config"
	"github.com/relaybus-org/go-gateway/transport"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.New(nil)
	require.NoError(t, err)

	conf := loadConfig(cfg)
	require.Equal(t, "amqp://localhost:5672", conf.URI)
	require.Equal(t, "relaybus.commands", conf.Exchange)
}

func TestPublishBeforeStartFails(t *testing.T) {
	cfg, err := config.New(nil)
	require.NoError(t, err)

	pub := New(cfg)

	outcome := pub.Publish(context.Background(), "topic", []byte("x"), "k")
	require.Equal(t, transport.SendFailed, outcome.Status)

	require.NoError(t, pub.Close())
}
