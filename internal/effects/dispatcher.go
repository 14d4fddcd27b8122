package effects

import (
	"context"
	"log/slog"
	"sync"
)

// Dispatcher delivers effect commands to presentation collaborators.
type Dispatcher interface {
	Dispatch(ctx context.Context, commands ...Command) error
}

// LogDispatcher writes every command to the log. It is the default sink for
// local CLI runs where no presentation collaborator is attached.
type LogDispatcher struct {
	logger *slog.Logger
}

// NewLogDispatcher creates a dispatcher that logs commands.
func NewLogDispatcher(logger *slog.Logger) *LogDispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(_ context.Context, commands ...Command) error {
	for _, cmd := range commands {
		d.logger.Info("effect",
			"kind", cmd.Kind,
			"exercise", cmd.Exercise,
			"message", cmd.Message,
		)
	}
	return nil
}

// Buffer collects dispatched commands in memory. The daemon drains it per
// request so effect requests ride back on the HTTP response.
type Buffer struct {
	mu       sync.Mutex
	commands []Command
}

// NewBuffer creates an empty command buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

func (b *Buffer) Dispatch(_ context.Context, commands ...Command) error {
	b.mu.Lock()
	b.commands = append(b.commands, commands...)
	b.mu.Unlock()
	return nil
}

// Drain returns the buffered commands and clears the buffer.
func (b *Buffer) Drain() []Command {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.commands
	b.commands = nil
	return out
}

// Multi fans one dispatch out to several dispatchers. The first error wins
// but every dispatcher still sees the commands.
type Multi struct {
	dispatchers []Dispatcher
}

// NewMulti combines dispatchers.
func NewMulti(dispatchers ...Dispatcher) *Multi {
	return &Multi{dispatchers: dispatchers}
}

func (m *Multi) Dispatch(ctx context.Context, commands ...Command) error {
	var first error
	for _, d := range m.dispatchers {
		if err := d.Dispatch(ctx, commands...); err != nil && first == nil {
			first = err
		}
	}
	return first
}
