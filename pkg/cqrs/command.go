package cqrs

import (
	"context"
	"fmt"
)

// Command represents an operation that changes the state of the system.
// Commands are named with verbs in imperative form (e.g., "RegisterApp").
type Command interface {
	Message
}

// CommandHandler handles a single command type.
type CommandHandler[C Command] interface {
	Handle(ctx context.Context, cmd C) error
}

// CommandBus dispatches commands to their handlers.
type CommandBus struct {
	*bus
}

// NewCommandBus creates a command bus. When ctx is cancelled the bus stops
// accepting commands.
func NewCommandBus(ctx context.Context) *CommandBus {
	b := &CommandBus{bus: newBus("command")}
	shutdownOnDone(ctx, b.bus)
	return b
}

type commandFunc func(ctx context.Context, cmd Command) error

// RegisterCommand registers h for commands of type C.
func RegisterCommand[C Command](b *CommandBus, h CommandHandler[C]) error {
	var zero C
	fn := commandFunc(func(ctx context.Context, cmd Command) error {
		typed, ok := cmd.(C)
		if !ok {
			return fmt.Errorf("command %s has unexpected type %T", cmd.Name(), cmd)
		}
		return h.Handle(ctx, typed)
	})
	return b.register(zero.Name(), fn)
}

// Dispatch sends cmd to its handler and returns the handler's error.
func (b *CommandBus) Dispatch(ctx context.Context, cmd Command) error {
	h, err := b.acquire(cmd.Name())
	if err != nil {
		return err
	}
	defer b.release()
	return h.(commandFunc)(ctx, cmd)
}
