package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/relaybus-org/go-gateway/config"
	"github.com/relaybus-org/go-gateway/transport"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := config.New(nil)
	require.NoError(t, err)

	conf := loadConfig(cfg)
	require.Equal(t, []string{"localhost:9092"}, conf.Brokers)
}

func TestPublishBeforeStartFails(t *testing.T) {
	cfg, err := config.New(nil)
	require.NoError(t, err)

	pub := New(cfg)

	outcome := pub.Publish(context.Background(), "topic", []byte("x"), "k")
	require.Equal(t, transport.SendFailed, outcome.Status)

	out := pub.PublishAsync(context.Background(), "topic", []byte("x"), "k")
	select {
	case outcome := <-out:
		require.Equal(t, transport.SendFailed, outcome.Status)
	case <-time.After(time.Second):
		t.Fatal("no outcome")
	}

	require.NoError(t, pub.Close())
}
