package cvs

import (
	"context"
	"errors"
	"fmt"

	"github.com/cvsbridge/cvsbridge/internal/changeset"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type commitPlan struct {
	commit    []string
	add       []string
	addBinary []string
	remove    []string
}

// planCommit checks the selection of op against the discovered changes.
// An empty selection takes every change.
func planCommit(op SmartCommit, changes changeset.Changeset) (commitPlan, error) {
	committable := lo.Flatten([][]string{changes.Modified, changes.Added, changes.Removed})

	if len(op.Commit) == 0 && len(op.Add) == 0 && len(op.AddBinary) == 0 && len(op.Remove) == 0 {
		return commitPlan{
			commit: committable,
			add:    changes.Uncontrolled,
			remove: changes.Updated,
		}, nil
	}

	plan := commitPlan{}
	var err error
	if plan.commit, err = selectPaths(op.Commit, committable, "modified, added or removed"); err != nil {
		return plan, err
	}
	if plan.add, err = selectPaths(op.Add, changes.Uncontrolled, "uncontrolled"); err != nil {
		return plan, err
	}
	if plan.addBinary, err = selectPaths(op.AddBinary, changes.Uncontrolled, "uncontrolled"); err != nil {
		return plan, err
	}
	if plan.remove, err = selectPaths(op.Remove, changes.Updated, "missing locally"); err != nil {
		return plan, err
	}

	if both := lo.Intersect(plan.add, plan.addBinary); len(both) > 0 {
		return plan, fmt.Errorf("%w: %s selected as both text and binary", ErrInvalidPath, both[0])
	}

	return plan, nil
}

func selectPaths(selected, allowed []string, what string) ([]string, error) {
	normalized, err := normalizePaths(selected)
	if err != nil {
		return nil, err
	}

	if missing, _ := lo.Difference(normalized, allowed); len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s is not reported as %s", ErrInvalidPath, missing[0], what)
	}

	return lo.Uniq(normalized), nil
}

// smartCommit schedules additions and removals for the selected files and
// commits them together with the selected modifications. A file whose
// scheduling fails is left out of the commit.
func (e *Executor) smartCommit(ctx context.Context, loc Location, op SmartCommit, sinks Sinks) Outcome {
	raw, exit, err := e.dryRun(ctx, loc, sinks)
	if err != nil || !exit.Success() {
		return e.conclude(
			sinks, exit, err,
			"",
			fmt.Sprintf("Unable to collect changes in local copy of repository: %s", loc.WorkDir),
		)
	}

	changes := changeset.Classify(raw)
	plan, err := planCommit(op, changes)
	if err != nil {
		outcome := e.reject(sinks, err)
		outcome.Changes = &changes
		return outcome
	}

	logger := e.logger.With(zap.String("work_dir", loc.WorkDir))
	logger.Debug("smart commit planned",
		zap.Strings("commit", plan.commit),
		zap.Strings("add", plan.add),
		zap.Strings("add_binary", plan.addBinary),
		zap.Strings("remove", plan.remove),
	)

	commit := append([]string(nil), plan.commit...)
	var failed []string

	steps := lo.Flatten([][]func() (string, Outcome){
		lo.Map(plan.add, func(p string, _ int) func() (string, Outcome) {
			return func() (string, Outcome) { return p, e.add(ctx, loc, p, addText, sinks) }
		}),
		lo.Map(plan.addBinary, func(p string, _ int) func() (string, Outcome) {
			return func() (string, Outcome) { return p, e.add(ctx, loc, p, addBinary, sinks) }
		}),
		lo.Map(plan.remove, func(p string, _ int) func() (string, Outcome) {
			return func() (string, Outcome) { return p, e.remove(ctx, loc, p, sinks) }
		}),
	})

	for i, step := range steps {
		if ctx.Err() != nil {
			logger.Info("smart commit cancelled", zap.Int("pending_steps", len(steps)-i))
			return Outcome{Cancelled: true, ExitCode: -1, Changes: &changes}
		}

		path, outcome := step()
		if !outcome.Succeeded {
			failed = append(failed, path)
			continue
		}
		commit = append(commit, path)
	}

	outcome := e.commit(ctx, loc, commit, op.Comment, sinks)
	outcome.Changes = &changes

	if len(failed) > 0 {
		outcome.Succeeded = false
		outcome.Err = errors.Join(
			outcome.Err,
			fmt.Errorf("%w: could not schedule %d file(s): %v", ErrClientFailure, len(failed), failed),
		)
	}

	return outcome
}
