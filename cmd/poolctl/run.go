package main

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/ilearn/threadpool/internal/loadgen"
	"github.com/ilearn/threadpool/internal/workerpool"
)

func newRunCmd() *cobra.Command {
	var (
		size       int
		jobs       int
		duration   time.Duration
		panicEvery int
		rate       string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one batch of synthetic jobs and print a report",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("size") {
				size = cfg.Pool.Size
			}
			plan := loadgen.Plan{
				Jobs:        cfg.Load.Jobs,
				JobDuration: cfg.Load.JobDuration,
				PanicEvery:  cfg.Load.PanicEvery,
				Rate:        cfg.Load.Rate,
			}
			if flags.Changed("jobs") {
				plan.Jobs = jobs
			}
			if flags.Changed("duration") {
				plan.JobDuration = duration
			}
			if flags.Changed("panic-every") {
				plan.PanicEvery = panicEvery
			}
			if flags.Changed("rate") {
				plan.Rate = rate
			}
			if size <= 0 {
				return errors.Errorf("--size must be greater than zero, got %d", size)
			}

			var report loadgen.Report
			err := workerpool.With(size, func(pool *workerpool.Pool) error {
				var runErr error
				report, runErr = loadgen.Run(cmd.Context(), pool, plan)
				return runErr
			})

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if encErr := enc.Encode(report); encErr != nil {
				return errors.Wrap(encErr, "print report")
			}
			if err != nil {
				errs := multierr.Errors(err)
				return errors.Errorf("load run %s: %d error(s), first: %v", report.RunID, len(errs), errs[0])
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&size, "size", 0, "Number of workers")
	cmd.Flags().IntVar(&jobs, "jobs", 0, "Number of jobs to submit")
	cmd.Flags().DurationVar(&duration, "duration", 0, "How long each job sleeps")
	cmd.Flags().IntVar(&panicEvery, "panic-every", 0, "Make every n-th job panic (0 disables)")
	cmd.Flags().StringVar(&rate, "rate", "", "Submission rate limit, e.g. 100-S")

	return cmd
}
