package correlation

import (
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/relaybus-org/go-gateway/logger"
	"github.com/relaybus-org/go-gateway/message"
)

type testCommand struct {
	id        string
	aggregate string
}

func (c *testCommand) CommandID() string   { return c.id }
func (c *testCommand) AggregateID() string { return c.aggregate }

func testLogger(t *testing.T) logger.Logger {
	t.Helper()

	log, err := logger.New(logger.Configuration{
		Writer: io.Discard,
		Level:  logger.ERROR_LEVEL,
	})
	require.NoError(t, err)

	return log
}

func testTopics() message.ReplyTopics {
	return message.ReplyTopics{
		CommandExecuted: "test.reply.command_executed",
		EventHandled:    "test.reply.event_handled",
	}
}

func TestTableRejectsDuplicatePending(t *testing.T) {
	table := NewTable(testLogger(t), testTopics())
	defer table.Close()

	cmd := &testCommand{id: "c1", aggregate: "a1"}

	require.NoError(t, table.RegisterCommand(cmd, EventHandled, NewFuture[CommandResult]()))

	err := table.RegisterCommand(cmd, EventHandled, NewFuture[CommandResult]())
	require.ErrorIs(t, err, ErrDuplicatePending)
}

func TestTableRejectsUntrackedContract(t *testing.T) {
	table := NewTable(testLogger(t), testTopics())
	defer table.Close()

	err := table.RegisterCommand(&testCommand{id: "c1"}, SendOnly, NewFuture[CommandResult]())
	require.ErrorIs(t, err, ErrUntrackedContract)

	err = table.RegisterCommand(&testCommand{id: "c1"}, EventHandled, nil)
	require.ErrorIs(t, err, ErrNilHandle)
}

func TestTableNotifyCommandSendFailed(t *testing.T) {
	table := NewTable(testLogger(t), testTopics())
	defer table.Close()

	cmd := &testCommand{id: "c1", aggregate: "a1"}
	handle := NewFuture[CommandResult]()
	require.NoError(t, table.RegisterCommand(cmd, EventHandled, handle))

	table.NotifyCommandSendFailed(cmd)

	result, ok := handle.TryResult()
	require.True(t, ok)
	require.Equal(t, ResultFailed, result.Status)
	require.Equal(t, "a1", result.AggregateID)

	// The entry is gone; a second notification is a no-op.
	table.NotifyCommandSendFailed(cmd)
	require.Equal(t, 0, table.PendingCommands())
}

func TestTableNotifyUnknownIDIsNoOp(t *testing.T) {
	table := NewTable(testLogger(t), testTopics())
	defer table.Close()

	table.NotifyCommandSendFailed(&testCommand{id: "ghost"})
	table.NotifyProcessSendFailed(&testCommand{id: "ghost"})
}

func TestTableEntriesAreIndependent(t *testing.T) {
	table := NewTable(testLogger(t), testTopics())
	defer table.Close()

	first := NewFuture[CommandResult]()
	second := NewFuture[CommandResult]()

	// Same aggregate, distinct command ids: two independent entries.
	require.NoError(t, table.RegisterCommand(&testCommand{id: "c1", aggregate: "a1"}, EventHandled, first))
	require.NoError(t, table.RegisterCommand(&testCommand{id: "c2", aggregate: "a1"}, EventHandled, second))
	require.Equal(t, 2, table.PendingCommands())

	table.OnCommandExecuted(CommandReply{CommandID: "c1", AggregateID: "a1", Status: replyStatusSuccess})

	_, ok := first.TryResult()
	require.True(t, ok)

	_, ok = second.TryResult()
	require.False(t, ok)
	require.Equal(t, 1, table.PendingCommands())
}

func TestTableContractGatesCommandExecutedReply(t *testing.T) {
	table := NewTable(testLogger(t), testTopics())
	defer table.Close()

	handle := NewFuture[CommandResult]()
	cmd := &testCommand{id: "c1", aggregate: "a1"}
	require.NoError(t, table.RegisterCommand(cmd, ProcessCompleted, handle))

	// A command-executed reply does not satisfy the stricter contract.
	table.OnCommandExecuted(CommandReply{CommandID: "c1", Status: replyStatusSuccess})
	_, ok := handle.TryResult()
	require.False(t, ok)

	// The event-handled reply does.
	table.OnEventHandled(EventReply{CommandID: "c1", AggregateID: "a1", Status: replyStatusSuccess})

	result, ok := handle.TryResult()
	require.True(t, ok)
	require.Equal(t, ResultSuccess, result.Status)
}

func TestTableFailureReplyCarriesMessage(t *testing.T) {
	table := NewTable(testLogger(t), testTopics())
	defer table.Close()

	handle := NewFuture[CommandResult]()
	require.NoError(t, table.RegisterCommand(&testCommand{id: "c1", aggregate: "a1"}, EventHandled, handle))

	table.OnCommandExecuted(CommandReply{
		CommandID:    "c1",
		Status:       replyStatusFailed,
		ErrorMessage: "aggregate version conflict",
	})

	result, ok := handle.TryResult()
	require.True(t, ok)
	require.Equal(t, ResultFailed, result.Status)
	require.Equal(t, "aggregate version conflict", result.ErrorMessage)
}

func TestTableProcessLifecycle(t *testing.T) {
	table := NewTable(testLogger(t), testTopics())
	defer table.Close()

	cmd := &testCommand{id: "p1", aggregate: "a1"}
	handle := NewFuture[ProcessResult]()
	require.NoError(t, table.RegisterProcess(cmd, handle))
	require.Equal(t, 1, table.PendingProcesses())

	err := table.RegisterProcess(cmd, NewFuture[ProcessResult]())
	require.ErrorIs(t, err, ErrDuplicatePending)

	table.OnEventHandled(EventReply{CommandID: "p1", AggregateID: "a1", Status: replyStatusSuccess})

	result, ok := handle.TryResult()
	require.True(t, ok)
	require.Equal(t, ResultSuccess, result.Status)
	require.Equal(t, 0, table.PendingProcesses())
}

func TestTableEntryTTL(t *testing.T) {
	table := NewTable(testLogger(t), testTopics(), WithEntryTTL(20*time.Millisecond))
	defer table.Close()

	handle := NewFuture[CommandResult]()
	require.NoError(t, table.RegisterCommand(&testCommand{id: "c1", aggregate: "a1"}, EventHandled, handle))

	select {
	case <-handle.Done():
	case <-time.After(time.Second):
		t.Fatal("entry did not expire")
	}

	result, _ := handle.TryResult()
	require.Equal(t, ResultTimeout, result.Status)
}

func TestTableCloseResolvesPending(t *testing.T) {
	table := NewTable(testLogger(t), testTopics())

	cmdHandle := NewFuture[CommandResult]()
	procHandle := NewFuture[ProcessResult]()
	require.NoError(t, table.RegisterCommand(&testCommand{id: "c1", aggregate: "a1"}, EventHandled, cmdHandle))
	require.NoError(t, table.RegisterProcess(&testCommand{id: "p1", aggregate: "a1"}, procHandle))

	require.NoError(t, table.Close())

	cmdResult, ok := cmdHandle.TryResult()
	require.True(t, ok)
	require.Equal(t, ResultFailed, cmdResult.Status)

	procResult, ok := procHandle.TryResult()
	require.True(t, ok)
	require.Equal(t, ResultFailed, procResult.Status)

	// Registration after teardown fails.
	err := table.RegisterCommand(&testCommand{id: "c2", aggregate: "a1"}, EventHandled, NewFuture[CommandResult]())
	require.ErrorIs(t, err, ErrTableClosed)
}
