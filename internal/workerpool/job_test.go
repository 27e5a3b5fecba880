package workerpool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, ch <-chan Response) Response {
	t.Helper()
	select {
	case r := <-ch:
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("no response from job")
		return Response{}
	}
}

func TestPool_Submit(t *testing.T) {
	t.Parallel()

	errJob := errors.New("job failed")
	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	tests := []struct {
		name      string
		ctx       context.Context
		fn        func(context.Context) (any, error)
		wantValue any
		assertE   assert.ErrorAssertionFunc
	}{
		{
			name:      "Success",
			ctx:       context.Background(),
			fn:        func(context.Context) (any, error) { return 42, nil },
			wantValue: 42,
			assertE:   assert.NoError,
		},
		{
			name: "JobError",
			ctx:  context.Background(),
			fn:   func(context.Context) (any, error) { return nil, errJob },
			assertE: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorIs(t, err, errJob)
			},
		},
		{
			name: "ContextCancelledBeforeStart",
			ctx:  cancelled,
			fn: func(context.Context) (any, error) {
				t.Error("fn must not run with a cancelled context")
				return nil, nil
			},
			assertE: func(t assert.TestingT, err error, _ ...interface{}) bool {
				return assert.ErrorIs(t, err, context.Canceled)
			},
		},
		{
			name: "PanicBecomesError",
			ctx:  context.Background(),
			fn:   func(context.Context) (any, error) { panic("kaboom") },
			assertE: func(t assert.TestingT, err error, _ ...interface{}) bool {
				var pe *PanicError
				return assert.ErrorAs(t, err, &pe) &&
					assert.Equal(t, "kaboom", pe.Value) &&
					assert.NotEmpty(t, pe.Stack)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newTestPool(t, 1)
			ch, err := p.Submit(tt.ctx, tt.fn)
			require.NoError(t, err)

			resp := receive(t, ch)
			tt.assertE(t, resp.Err)
			assert.Equal(t, tt.wantValue, resp.Value)
		})
	}
}

func TestPool_SubmitRejected(t *testing.T) {
	t.Parallel()

	p := newTestPool(t, 1)
	_, err := p.Submit(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilJob)

	p.Close()
	ch, err := p.Submit(context.Background(), func(context.Context) (any, error) { return nil, nil })
	assert.ErrorIs(t, err, ErrPoolClosed)
	assert.Nil(t, ch)
}

func TestPool_SubmitPanicKeepsWorkerStats(t *testing.T) {
	t.Parallel()

	p := newTestPool(t, 1)
	ch, err := p.Submit(context.Background(), func(context.Context) (any, error) { panic("inside submit") })
	require.NoError(t, err)
	receive(t, ch)
	p.Close()

	// recovered by Submit itself, so the worker sees a normal return
	st := p.Stats()
	assert.EqualValues(t, 1, st.Completed)
	assert.Zero(t, st.Panicked)
}
