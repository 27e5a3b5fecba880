package infra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGraceful_RunsCallbacksInOrder(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls []string
	Graceful(ctx, time.Second,
		func(ctx context.Context) {
			_, ok := ctx.Deadline()
			assert.True(t, ok)
			calls = append(calls, "first")
		},
		func(context.Context) { calls = append(calls, "second") },
	)

	assert.Equal(t, []string{"first", "second"}, calls)
}
