package loadgen

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

const minPause = 10 * time.Millisecond

type pacer struct {
	lim *limiter.Limiter
}

// newPacer returns nil for an empty rate, a nil pacer never waits.
func newPacer(rate string) (*pacer, error) {
	if rate == "" {
		return nil, nil
	}
	r, err := limiter.NewRateFromFormatted(rate)
	if err != nil {
		return nil, err
	}
	return &pacer{lim: limiter.New(memory.NewStore(), r)}, nil
}

func (p *pacer) wait(ctx context.Context, key string) error {
	if p == nil {
		return ctx.Err()
	}
	for {
		lctx, err := p.lim.Get(ctx, key)
		if err != nil {
			return errors.Wrap(err, "rate limiter")
		}
		if !lctx.Reached {
			return nil
		}

		pause := time.Until(time.Unix(lctx.Reset, 0))
		if pause < minPause {
			pause = minPause
		}
		timer := time.NewTimer(pause)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}
}
