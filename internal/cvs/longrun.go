package cvs

import (
	"context"
	"fmt"

	"github.com/cvsbridge/cvsbridge/internal/process"
	"go.uber.org/zap"
)

type longRunTexts struct {
	success   string
	failure   string
	cancelled string
}

func (e *Executor) checkout(ctx context.Context, loc Location, op Checkout, sinks Sinks) Outcome {
	if op.Module == "" {
		return e.reject(sinks, fmt.Errorf("%w: module name is required", ErrInvalidOperation))
	}

	return e.longRun(ctx, loc, checkoutArgs(loc.Root, op.Module, op.BranchTag), sinks, longRunTexts{
		success:   fmt.Sprintf("Module %s has been checked out from repository", op.Module),
		failure:   fmt.Sprintf("Unable to checkout module from repository: %s", op.Module),
		cancelled: fmt.Sprintf("Checkout of module %s has been cancelled", op.Module),
	})
}

func (e *Executor) update(ctx context.Context, loc Location, branchTag string, sinks Sinks) Outcome {
	texts := longRunTexts{
		success:   fmt.Sprintf("Local copy of repository %s has been updated", loc.WorkDir),
		failure:   fmt.Sprintf("Unable to update local copy of repository: %s", loc.WorkDir),
		cancelled: fmt.Sprintf("Update of local copy of repository %s has been cancelled", loc.WorkDir),
	}
	if branchTag != "" {
		texts.success += " to branch or tag " + branchTag
		texts.failure += " to branch or tag " + branchTag
	}

	return e.longRun(ctx, loc, updateArgs(loc.Root, branchTag), sinks, texts)
}

// longRun drives the Idle, Starting, Running, terminal state sequence of
// checkout and update. A context that is already done spawns nothing.
func (e *Executor) longRun(ctx context.Context, loc Location, args []string, sinks Sinks, texts longRunTexts) Outcome {
	if ctx.Err() != nil {
		e.logger.Debug("operation cancelled before start", zap.String("work_dir", loc.WorkDir))
		return Outcome{Cancelled: true, ExitCode: -1}
	}

	progress := startTracker(sinks.Progress, e.config.ProgressInterval, e.config.ProgressWidth)

	h, err := e.start(ctx, loc, args)
	if err != nil {
		progress.finish(StateFailed)
		return e.conclude(sinks, process.Exit{Code: -1, Signal: ""}, err, texts.success, texts.failure)
	}
	progress.running()

	exit, err := process.Drain(
		h,
		func(chunk []byte) {
			text := stripStatus(string(chunk))
			sinks.Log.Append(text)
			progress.update(text)
		},
		e.logOutput(sinks),
	)

	if (err != nil || !exit.Success()) && ctx.Err() != nil {
		progress.finish(StateCancelled)
		sinks.Messages.ShowInfo(texts.cancelled)
		return Outcome{Cancelled: true, ExitCode: exit.Code, Message: texts.cancelled}
	}

	if err == nil && exit.Success() {
		progress.finish(StateSucceeded)
	} else {
		progress.finish(StateFailed)
	}

	return e.conclude(sinks, exit, err, texts.success, texts.failure)
}
