// Package cqrs routes commands and queries to their handlers.
//
// Commands change state and return only an error. Queries read state and
// return a typed result. Handlers are registered once per message name;
// dispatching an unknown message is an error.
package cqrs

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrShuttingDown is returned when a message is dispatched after Shutdown.
var ErrShuttingDown = errors.New("bus is shutting down")

// ErrNoHandler is returned when no handler is registered for a message.
var ErrNoHandler = errors.New("no handler registered")

// Message is implemented by commands and queries.
type Message interface {
	// Name returns the routing name of the message.
	Name() string
}

type bus struct {
	kind     string
	handlers map[string]any
	mu       sync.RWMutex
	closing  bool
	active   sync.WaitGroup
}

func newBus(kind string) *bus {
	return &bus{kind: kind, handlers: make(map[string]any)}
}

func (b *bus) register(name string, h any) error {
	if name == "" {
		return fmt.Errorf("%s name must not be empty", b.kind)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, exists := b.handlers[name]; exists {
		return fmt.Errorf("handler for %s %s already registered", b.kind, name)
	}
	b.handlers[name] = h
	return nil
}

// acquire looks up the handler and marks a message in flight. The caller
// must call release when acquire succeeds.
func (b *bus) acquire(name string) (any, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closing {
		return nil, ErrShuttingDown
	}
	h, ok := b.handlers[name]
	if !ok {
		return nil, fmt.Errorf("%w for %s %s", ErrNoHandler, b.kind, name)
	}
	b.active.Add(1)
	return h, nil
}

func (b *bus) release() { b.active.Done() }

// Shutdown rejects new messages. In-flight messages keep running.
func (b *bus) Shutdown() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closing = true
}

// WaitForCompletion blocks until all in-flight messages have finished.
func (b *bus) WaitForCompletion() {
	b.active.Wait()
}

// IsShuttingDown reports whether Shutdown was called.
func (b *bus) IsShuttingDown() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.closing
}

func shutdownOnDone(ctx context.Context, b *bus) {
	if ctx == nil {
		return
	}
	go func() {
		<-ctx.Done()
		b.Shutdown()
	}()
}
