package api

import (
	"context"
	"sync"
)

// Future holds the single result of one operation.
type Future[T any] struct {
	once sync.Once
	ch   chan result[T]
}

type result[T any] struct {
	value T
	err   error
}

// NewFuture returns a future and the completion that resolves it.
// Only the first call to the completion has any effect.
func NewFuture[T any]() (*Future[T], func(T, error)) {
	f := &Future[T]{ch: make(chan result[T], 1)}
	return f, f.resolve
}

func (f *Future[T]) resolve(v T, err error) {
	f.once.Do(func() {
		f.ch <- result[T]{value: v, err: err}
	})
}

// Await blocks until the future resolves or ctx is done.
func (f *Future[T]) Await(ctx context.Context) (T, error) {
	select {
	case r := <-f.ch:
		// Keep the result for later Await calls.
		f.ch <- r
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Await runs op with a fresh future and waits for its completion.
//
//	posts, err := api.Await(ctx, func(done func([]api.Post, error)) {
//		c.GetFeedPosts(0, done)
//	})
func Await[T any](ctx context.Context, op func(completion func(T, error))) (T, error) {
	f, done := NewFuture[T]()
	op(done)
	return f.Await(ctx)
}
