package loadgen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"github.com/ilearn/threadpool/internal/workerpool"
)

type Plan struct {
	Jobs        int
	JobDuration time.Duration
	// PanicEvery makes every n-th job panic; zero disables it
	PanicEvery int
	// Rate caps submissions, e.g. "100-S"; empty means no pacing
	Rate string
}

type Report struct {
	RunID     string        `json:"run_id"`
	Submitted int           `json:"submitted"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Run submits plan.Jobs synthetic jobs to pool and waits for all their
// responses. Errors of individual jobs are combined into the returned error.
func Run(ctx context.Context, pool *workerpool.Pool, plan Plan) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	if plan.Jobs < 0 {
		return report, errors.Errorf("negative job count %d", plan.Jobs)
	}

	pace, err := newPacer(plan.Rate)
	if err != nil {
		return report, errors.Wrap(err, "parse rate")
	}

	slog.Debug("load run started", "run_id", report.RunID, "jobs", plan.Jobs, "rate", plan.Rate)
	start := time.Now()

	responses := make(chan (<-chan workerpool.Response), plan.Jobs)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(responses)
		for n := 1; n <= plan.Jobs; n++ {
			if err := pace.wait(gctx, report.RunID); err != nil {
				return err
			}
			ch, err := pool.Submit(gctx, syntheticJob(n, plan))
			if err != nil {
				return errors.Wrapf(err, "submit job %d", n)
			}
			report.Submitted++
			responses <- ch
		}
		return nil
	})

	var jobErrs error
	g.Go(func() error {
		for ch := range responses {
			resp := <-ch
			if resp.Err != nil {
				report.Failed++
				jobErrs = multierr.Append(jobErrs, resp.Err)
				continue
			}
			report.Succeeded++
		}
		return nil
	})

	err = g.Wait()
	report.Elapsed = time.Since(start)

	slog.Info("load run finished",
		"run_id", report.RunID,
		"submitted", report.Submitted,
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"elapsed", report.Elapsed)

	return report, multierr.Append(err, jobErrs)
}

func syntheticJob(n int, plan Plan) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		if plan.PanicEvery > 0 && n%plan.PanicEvery == 0 {
			panic(fmt.Sprintf("synthetic panic in job %d", n))
		}
		if plan.JobDuration > 0 {
			timer := time.NewTimer(plan.JobDuration)
			defer timer.Stop()
			select {
			case <-timer.C:
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
		return n, nil
	}
}
