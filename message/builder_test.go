package message

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type placeOrder struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
}

func (c *placeOrder) CommandID() string   { return c.ID }
func (c *placeOrder) AggregateID() string { return c.OrderID }

func newTestBuilder(t *testing.T) (*Builder, *TypeCodes) {
	t.Helper()

	codes := NewTypeCodes()
	require.NoError(t, codes.Register(10, &placeOrder{}))

	builder, err := NewBuilder(
		NewJSONCodec(),
		codes,
		NewTypeNameRouter("orders.command"),
		NewAggregateKeyer(),
		ReplyTopics{
			CommandExecuted: "orders.reply.command_executed",
			EventHandled:    "orders.reply.event_handled",
		},
	)
	require.NoError(t, err)

	return builder, codes
}

func TestBuilderRoundTrip(t *testing.T) {
	builder, _ := newTestBuilder(t)
	cmd := &placeOrder{ID: "c1", OrderID: "o1", ProductID: "p7"}

	env, err := builder.Build(cmd)
	require.NoError(t, err)
	require.Equal(t, "orders.command.place_order", env.Topic)
	require.Equal(t, "o1", env.RoutingKey)

	payload, code, body, err := builder.Open(env.Body)
	require.NoError(t, err)
	require.Equal(t, uint32(10), code)
	require.Equal(t, "orders.reply.command_executed", payload.CommandExecutedReplyTopic)
	require.Equal(t, "orders.reply.event_handled", payload.EventHandledReplyTopic)

	var decoded placeOrder
	require.NoError(t, NewJSONCodec().Unmarshal(body, &decoded))
	require.Equal(t, *cmd, decoded)
}

func TestBuilderDeterministic(t *testing.T) {
	builder, _ := newTestBuilder(t)
	cmd := &placeOrder{ID: "c1", OrderID: "o1"}

	first, err := builder.Build(cmd)
	require.NoError(t, err)

	second, err := builder.Build(cmd)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestBuilderUnknownType(t *testing.T) {
	builder, err := NewBuilder(
		NewJSONCodec(),
		NewTypeCodes(),
		NewTypeNameRouter(""),
		NewAggregateKeyer(),
		ReplyTopics{},
	)
	require.NoError(t, err)

	_, err = builder.Build(&placeOrder{ID: "c1", OrderID: "o1"})
	require.ErrorIs(t, err, ErrUnknownCommandType)
}

func TestBuilderRequiresDependencies(t *testing.T) {
	codes := NewTypeCodes()

	_, err := NewBuilder(nil, codes, NewTypeNameRouter(""), NewAggregateKeyer(), ReplyTopics{})
	require.Error(t, err)

	_, err = NewBuilder(NewJSONCodec(), nil, NewTypeNameRouter(""), NewAggregateKeyer(), ReplyTopics{})
	require.Error(t, err)

	_, err = NewBuilder(NewJSONCodec(), codes, nil, NewAggregateKeyer(), ReplyTopics{})
	require.Error(t, err)

	_, err = NewBuilder(NewJSONCodec(), codes, NewTypeNameRouter(""), nil, ReplyTopics{})
	require.Error(t, err)
}

func TestRoutingKeyFallsBackToCommandID(t *testing.T) {
	keyer := NewAggregateKeyer()

	require.Equal(t, "o1", keyer.RoutingKeyFor(&placeOrder{ID: "c1", OrderID: "o1"}))
	require.Equal(t, "c1", keyer.RoutingKeyFor(&placeOrder{ID: "c1"}))
}

func TestTypeNameRouterDefaultPrefix(t *testing.T) {
	router := NewTypeNameRouter("")
	require.Equal(t, "relaybus.command.place_order", router.TopicFor(&placeOrder{}))
}
