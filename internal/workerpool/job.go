package workerpool

import (
	"context"
	"runtime/debug"
)

// Job is a unit of work executed exactly once by one of the pool workers.
type Job func()

type Response struct {
	Value any
	Err   error
}

// Submit runs fn on the pool and delivers its outcome on the returned channel.
// The channel is buffered, so the worker never waits for the caller to read it.
func (p *Pool) Submit(ctx context.Context, fn func(context.Context) (any, error)) (<-chan Response, error) {
	if fn == nil {
		return nil, ErrNilJob
	}

	resp := make(chan Response, 1)
	err := p.Execute(func() {
		// проверяем отмену контекста до выполнения
		if errCtx := ctx.Err(); errCtx != nil {
			resp <- Response{Err: errCtx}
			return
		}
		resp <- call(ctx, fn)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func call(ctx context.Context, fn func(context.Context) (any, error)) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			resp = Response{Err: &PanicError{Value: r, Stack: string(debug.Stack())}}
		}
	}()

	v, err := fn(ctx)
	return Response{Value: v, Err: err}
}
