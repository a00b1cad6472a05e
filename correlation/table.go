package correlation

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/relaybus-org/go-gateway/logger"
	"github.com/relaybus-org/go-gateway/message"
)

var (
	// ErrDuplicatePending indicates a live entry already exists for the id.
	ErrDuplicatePending = errors.New("correlation: pending entry already exists")
	// ErrNilHandle indicates that registration received no handle.
	ErrNilHandle = errors.New("correlation: completion handle is required")
	// ErrUntrackedContract indicates registration with SendOnly, which never
	// produces a table entry.
	ErrUntrackedContract = errors.New("correlation: contract is not tracked")
	// ErrTableClosed indicates registration after teardown.
	ErrTableClosed = errors.New("correlation: table is closed")
)

type commandEntry struct {
	cmd      message.Command
	contract CompletionContract
	handle   *Future[CommandResult]
	timer    *time.Timer
}

type processEntry struct {
	cmd    message.Command
	handle *Future[ProcessResult]
	timer  *time.Timer
}

// Table is an in-memory Registry. It guarantees at most one live entry per
// command id and exactly-once resolution of every handle, including under
// concurrent reply/failure/timeout races.
type Table struct {
	log    logger.Logger
	topics message.ReplyTopics
	ttl    time.Duration

	mu        sync.Mutex
	commands  map[string]*commandEntry
	processes map[string]*processEntry
	closed    bool
}

// TableOption customizes a Table.
type TableOption func(*Table)

// WithEntryTTL resolves entries older than d with a timeout result.
// Zero disables expiry.
func WithEntryTTL(d time.Duration) TableOption {
	return func(t *Table) {
		t.ttl = d
	}
}

// NewTable creates an empty table listening on the given reply topics.
func NewTable(log logger.Logger, topics message.ReplyTopics, opts ...TableOption) *Table {
	if log == nil {
		log = logger.NewDefault()
	}

	t := &Table{
		log:       log,
		topics:    topics,
		commands:  make(map[string]*commandEntry),
		processes: make(map[string]*processEntry),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}

	return t
}

// ReplyTopics exposes the reply channels this table's listener consumes.
func (t *Table) ReplyTopics() message.ReplyTopics {
	return t.topics
}

// RegisterCommand creates a pending entry for a tracked command send.
func (t *Table) RegisterCommand(cmd message.Command, contract CompletionContract, handle *Future[CommandResult]) error {
	if handle == nil {
		return ErrNilHandle
	}
	if contract != EventHandled && contract != ProcessCompleted {
		return fmt.Errorf("%w: %s", ErrUntrackedContract, contract)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTableClosed
	}

	id := cmd.CommandID()
	if _, ok := t.commands[id]; ok {
		return fmt.Errorf("%w: command %s", ErrDuplicatePending, id)
	}

	entry := &commandEntry{cmd: cmd, contract: contract, handle: handle}
	if t.ttl > 0 {
		entry.timer = time.AfterFunc(t.ttl, func() {
			t.expireCommand(id)
		})
	}

	t.commands[id] = entry

	return nil
}

// RegisterProcess creates a pending entry for a process-initiating send.
func (t *Table) RegisterProcess(cmd message.Command, handle *Future[ProcessResult]) error {
	if handle == nil {
		return ErrNilHandle
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.closed {
		return ErrTableClosed
	}

	id := cmd.CommandID()
	if _, ok := t.processes[id]; ok {
		return fmt.Errorf("%w: process %s", ErrDuplicatePending, id)
	}

	entry := &processEntry{cmd: cmd, handle: handle}
	if t.ttl > 0 {
		entry.timer = time.AfterFunc(t.ttl, func() {
			t.expireProcess(id)
		})
	}

	t.processes[id] = entry

	return nil
}

// NotifyCommandSendFailed resolves the matching entry with a failure result.
// An unknown id is a logged anomaly: the reply path may have resolved the
// entry first.
func (t *Table) NotifyCommandSendFailed(cmd message.Command) {
	id := cmd.CommandID()

	entry := t.takeCommand(id)
	if entry == nil {
		t.log.Warn("send-failure notification for unknown command",
			slog.String("command_id", id),
		)
		return
	}

	entry.handle.Resolve(CommandResult{
		CommandID:    id,
		AggregateID:  cmd.AggregateID(),
		Status:       ResultFailed,
		ErrorMessage: "command send failed",
	})
}

// NotifyProcessSendFailed is the process analogue of NotifyCommandSendFailed.
func (t *Table) NotifyProcessSendFailed(cmd message.Command) {
	id := cmd.CommandID()

	entry := t.takeProcess(id)
	if entry == nil {
		t.log.Warn("send-failure notification for unknown process",
			slog.String("command_id", id),
		)
		return
	}

	entry.handle.Resolve(ProcessResult{
		CommandID:    id,
		AggregateID:  cmd.AggregateID(),
		Status:       ResultFailed,
		ErrorMessage: "process command send failed",
	})
}

// OnCommandExecuted resolves the entry for a command-executed reply.
// Entries registered with ProcessCompleted keep waiting for the
// domain-event-handled reply.
func (t *Table) OnCommandExecuted(reply CommandReply) {
	t.mu.Lock()

	entry, ok := t.commands[reply.CommandID]
	if !ok || entry.contract != EventHandled {
		t.mu.Unlock()

		if !ok {
			t.log.Debug("command-executed reply for unknown command",
				slog.String("command_id", reply.CommandID),
			)
		}
		return
	}

	delete(t.commands, reply.CommandID)
	t.mu.Unlock()

	stopTimer(entry.timer)
	entry.handle.Resolve(CommandResult{
		CommandID:    reply.CommandID,
		AggregateID:  reply.AggregateID,
		Status:       statusFromReply(reply.Status),
		Result:       reply.Result,
		ErrorMessage: reply.ErrorMessage,
	})
}

// OnEventHandled resolves command entries awaiting full processing and any
// matching process entry.
func (t *Table) OnEventHandled(reply EventReply) {
	if entry := t.takeCommand(reply.CommandID); entry != nil {
		entry.handle.Resolve(CommandResult{
			CommandID:    reply.CommandID,
			AggregateID:  reply.AggregateID,
			Status:       statusFromReply(reply.Status),
			Result:       reply.Result,
			ErrorMessage: reply.ErrorMessage,
		})
	}

	if entry := t.takeProcess(reply.CommandID); entry != nil {
		entry.handle.Resolve(ProcessResult{
			CommandID:    reply.CommandID,
			AggregateID:  reply.AggregateID,
			Status:       statusFromReply(reply.Status),
			ErrorMessage: reply.ErrorMessage,
		})
	}
}

// PendingCommands reports the number of live command entries.
func (t *Table) PendingCommands() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.commands)
}

// PendingProcesses reports the number of live process entries.
func (t *Table) PendingProcesses() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.processes)
}

// Close tears the table down, resolving every pending handle with a failure
// result so no caller blocks forever.
func (t *Table) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true

	commands := t.commands
	processes := t.processes
	t.commands = make(map[string]*commandEntry)
	t.processes = make(map[string]*processEntry)
	t.mu.Unlock()

	for id, entry := range commands {
		stopTimer(entry.timer)
		entry.handle.Resolve(CommandResult{
			CommandID:    id,
			AggregateID:  entry.cmd.AggregateID(),
			Status:       ResultFailed,
			ErrorMessage: "correlation table closed",
		})
	}

	for id, entry := range processes {
		stopTimer(entry.timer)
		entry.handle.Resolve(ProcessResult{
			CommandID:    id,
			AggregateID:  entry.cmd.AggregateID(),
			Status:       ResultFailed,
			ErrorMessage: "correlation table closed",
		})
	}

	return nil
}

func (t *Table) expireCommand(id string) {
	entry := t.takeCommand(id)
	if entry == nil {
		return
	}

	t.log.Warn("pending command expired",
		slog.String("command_id", id),
		slog.String("contract", entry.contract.String()),
	)

	entry.handle.Resolve(CommandResult{
		CommandID:    id,
		AggregateID:  entry.cmd.AggregateID(),
		Status:       ResultTimeout,
		ErrorMessage: "command completion timed out",
	})
}

func (t *Table) expireProcess(id string) {
	entry := t.takeProcess(id)
	if entry == nil {
		return
	}

	t.log.Warn("pending process expired",
		slog.String("command_id", id),
	)

	entry.handle.Resolve(ProcessResult{
		CommandID:    id,
		AggregateID:  entry.cmd.AggregateID(),
		Status:       ResultTimeout,
		ErrorMessage: "process completion timed out",
	})
}

func (t *Table) takeCommand(id string) *commandEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.commands[id]
	if !ok {
		return nil
	}

	delete(t.commands, id)
	stopTimer(entry.timer)

	return entry
}

func (t *Table) takeProcess(id string) *processEntry {
	t.mu.Lock()
	defer t.mu.Unlock()

	entry, ok := t.processes[id]
	if !ok {
		return nil
	}

	delete(t.processes, id)
	stopTimer(entry.timer)

	return entry
}

func stopTimer(timer *time.Timer) {
	if timer != nil {
		timer.Stop()
	}
}
