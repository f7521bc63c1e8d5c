package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cvsbridge/cvsbridge/internal/cvs"
	"github.com/cvsbridge/cvsbridge/internal/journal"
	"github.com/cvsbridge/cvsbridge/internal/runs"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const progressPoll = 200 * time.Millisecond

// with opens the application for the duration of fn.
func (c *cli) with(cmd *cobra.Command, fn func(ctx context.Context, e *env, p *printer) error) error {
	ctx := cmd.Context()

	e, err := c.open(ctx)
	if err != nil {
		return err
	}
	defer e.close()

	return fn(ctx, e, newPrinter(cmd.OutOrStdout(), cmd.ErrOrStderr()))
}

// execute runs op, prints its record and fails unless it succeeded.
func (c *cli) execute(ctx context.Context, e *env, p *printer, op cvs.Operation) error {
	var (
		rec *journal.Record
		err error
	)
	if cvs.IsLongRunning(op) {
		rec, err = c.follow(ctx, e, p, op)
	} else {
		rec, err = e.runs.Execute(ctx, op)
	}
	if err != nil {
		return err //nolint:wrapcheck //already wrapped
	}

	p.record(rec, c.flags.verbose)

	return finished(rec)
}

// follow launches op in the background, prints its progress and cancels
// it when ctx is done.
func (c *cli) follow(ctx context.Context, e *env, p *printer, op cvs.Operation) (*journal.Record, error) {
	launched, err := e.runs.Launch(ctx, op)
	if err != nil {
		return nil, err //nolint:wrapcheck //already wrapped
	}

	type result struct {
		rec *journal.Record
		err error
	}
	done := make(chan result, 1)
	go func() {
		rec, waitErr := e.runs.Wait(context.WithoutCancel(ctx), launched.ID)
		done <- result{rec: rec, err: waitErr}
	}()

	ticker := time.NewTicker(progressPoll)
	defer ticker.Stop()

	interrupted := ctx.Done()
	last := ""
	for {
		select {
		case res := <-done:
			return res.rec, res.err
		case <-interrupted:
			interrupted = nil
			e.logger.Info("interrupted, cancelling run", zap.String("id", launched.ID.String()))
			if cancelErr := e.runs.Cancel(context.WithoutCancel(ctx), launched.ID); cancelErr != nil &&
				!errors.Is(cancelErr, runs.ErrNotRunning) {
				return nil, cancelErr //nolint:wrapcheck //already wrapped
			}
		case <-ticker.C:
			rec, getErr := e.runs.Get(context.WithoutCancel(ctx), launched.ID)
			if getErr != nil {
				return nil, getErr //nolint:wrapcheck //already wrapped
			}
			if rec.Progress != "" && rec.Progress != last {
				last = rec.Progress
				p.progress(last)
			}
		}
	}
}

func finished(rec *journal.Record) error {
	if rec.State == cvs.StateSucceeded {
		return nil
	}
	if rec.Error != "" {
		return fmt.Errorf("%s %s: %s", rec.Kind, rec.State, rec.Error)
	}
	return fmt.Errorf("%s %s", rec.Kind, rec.State)
}
