package cqrs

import (
	"context"
	"fmt"
)

// Query represents a request for information that does not change state.
// Queries are named with verbs in present tense (e.g., "GetImageTag").
type Query interface {
	Message
}

// QueryHandler handles a single query type and returns R.
type QueryHandler[Q Query, R any] interface {
	Handle(ctx context.Context, query Q) (R, error)
}

// QueryBus dispatches queries to their handlers.
type QueryBus struct {
	*bus
}

// NewQueryBus creates a query bus. When ctx is cancelled the bus stops
// accepting queries.
func NewQueryBus(ctx context.Context) *QueryBus {
	b := &QueryBus{bus: newBus("query")}
	shutdownOnDone(ctx, b.bus)
	return b
}

type queryFunc func(ctx context.Context, q Query) (any, error)

// RegisterQuery registers h for queries of type Q.
func RegisterQuery[Q Query, R any](b *QueryBus, h QueryHandler[Q, R]) error {
	var zero Q
	fn := queryFunc(func(ctx context.Context, q Query) (any, error) {
		typed, ok := q.(Q)
		if !ok {
			return nil, fmt.Errorf("query %s has unexpected type %T", q.Name(), q)
		}
		return h.Handle(ctx, typed)
	})
	return b.register(zero.Name(), fn)
}

// Dispatch sends q to its handler and returns the untyped result.
func (b *QueryBus) Dispatch(ctx context.Context, q Query) (any, error) {
	h, err := b.acquire(q.Name())
	if err != nil {
		return nil, err
	}
	defer b.release()
	return h.(queryFunc)(ctx, q)
}

// Ask dispatches q and asserts the result to R.
func Ask[R any](ctx context.Context, b *QueryBus, q Query) (R, error) {
	var zero R
	res, err := b.Dispatch(ctx, q)
	if err != nil {
		return zero, err
	}
	typed, ok := res.(R)
	if !ok {
		return zero, fmt.Errorf("query %s returned %T, want %T", q.Name(), res, zero)
	}
	return typed, nil
}
