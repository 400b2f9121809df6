package mbaas

import (
	"context"
)

// Task is one operation against the service. Wait runs it on the caller's
// goroutine; Go runs it in the background and reports to a Callback. Both go
// through the same function, so state changes are identical.
type Task[T any] struct {
	run func(ctx context.Context) (T, error)
}

func newTask[T any](run func(ctx context.Context) (T, error)) *Task[T] {
	return &Task[T]{run: run}
}

// Wait runs the task on the calling goroutine.
func (t *Task[T]) Wait(ctx context.Context) (T, error) {
	return t.run(ctx)
}

// Go starts the task and calls callback exactly once with its outcome.
// A nil callback discards the outcome.
func (t *Task[T]) Go(ctx context.Context, callback Callback[T]) {
	if callback == nil {
		callback = NewNoopCallback[T]()
	}
	go func() {
		result, err := t.run(ctx)
		callback.Result(result, err)
	}()
}

type Callback[R any] interface {
	Result(result R, err error)
}

type simpleCallback[R any] struct {
	callback func(result R, err error)
}

// NewCallback adapts a function to Callback.
func NewCallback[R any](callback func(result R, err error)) Callback[R] {
	return &simpleCallback[R]{
		callback: callback,
	}
}

// NewNoopCallback returns a Callback that drops the result.
func NewNoopCallback[R any]() Callback[R] {
	return &simpleCallback[R]{
		callback: func(result R, err error) {},
	}
}

func (c *simpleCallback[R]) Result(result R, err error) {
	c.callback(result, err)
}

type CallbackResult[R any] struct {
	Result R
	Error  error
}

// NewBlockingCallback returns a callback that delivers its outcome on the
// returned channel.
func NewBlockingCallback[R any]() (Callback[R], chan CallbackResult[R]) {
	c := make(chan CallbackResult[R], 1)
	callback := NewCallback[R](func(result R, err error) {
		c <- CallbackResult[R]{
			Result: result,
			Error:  err,
		}
	})
	return callback, c
}
