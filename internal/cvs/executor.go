package cvs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/cvsbridge/cvsbridge/internal/changeset"
	"github.com/cvsbridge/cvsbridge/internal/process"
	"github.com/cvsbridge/cvsbridge/internal/session"
	"go.uber.org/zap"
)

// Executor runs operations against the external client. Operations on the
// same working copy are not serialized here; callers that need it must
// arrange it themselves.
type Executor struct {
	config  Config
	runner  process.Runner
	session *session.Session
	metrics *Metrics

	// per-file locks held by the compare workflow
	filesMu sync.Mutex
	files   map[string]*fileLock

	logger *zap.Logger
}

func NewExecutor(
	config Config,
	runner process.Runner,
	session *session.Session,
	metrics *Metrics,
	logger *zap.Logger,
) *Executor {
	return &Executor{
		config:  config.withDefaults(),
		runner:  runner,
		session: session,
		metrics: metrics,

		files: make(map[string]*fileLock),

		logger: logger,
	}
}

// Execute runs op and reports through sinks. Every failure ends up in the
// returned Outcome.
func (e *Executor) Execute(ctx context.Context, op Operation, sinks Sinks) Outcome {
	sinks = sinks.withDefaults()
	started := time.Now()

	loc, err := e.locate(op.Where())
	logger := e.logger.With(
		zap.String("kind", string(op.Kind())),
		zap.String("work_dir", loc.WorkDir),
		zap.String("target", op.Target()),
	)
	logger.Info("executing operation")

	var outcome Outcome
	if err != nil {
		outcome = e.reject(sinks, err)
	} else {
		outcome = e.dispatch(ctx, loc, op, sinks)
	}

	elapsed := time.Since(started)
	e.metrics.observe(op.Kind(), outcome, elapsed)

	fields := []zap.Field{
		zap.String("state", string(outcome.State())),
		zap.Int("exit_code", outcome.ExitCode),
		zap.Duration("elapsed", elapsed),
	}
	if outcome.Err != nil {
		logger.Warn("operation failed", append(fields, zap.Error(outcome.Err))...)
	} else {
		logger.Info("operation finished", fields...)
	}

	return outcome
}

// Discover runs a dry-run update and classifies its output without
// reporting anything to the user.
func (e *Executor) Discover(ctx context.Context, loc Location) (changeset.Changeset, error) {
	loc, err := e.locate(loc)
	if err != nil {
		return changeset.Changeset{}, err
	}

	raw, exit, err := e.dryRun(ctx, loc, Sinks{}.withDefaults())
	if err != nil {
		return changeset.Changeset{}, err
	}
	if !exit.Success() {
		return changeset.Changeset{}, fmt.Errorf("%w: exit code %d", ErrClientFailure, exit.Code)
	}

	return changeset.Classify(raw), nil
}

func (e *Executor) dispatch(ctx context.Context, loc Location, op Operation, sinks Sinks) Outcome {
	switch op := op.(type) {
	case AddText:
		return e.add(ctx, loc, op.Path, addText, sinks)
	case AddBinary:
		return e.add(ctx, loc, op.Path, addBinary, sinks)
	case AddDir:
		return e.add(ctx, loc, op.Path, addDir, sinks)
	case Remove:
		return e.remove(ctx, loc, op.Path, sinks)
	case CommitFile:
		return e.commit(ctx, loc, []string{op.Path}, op.Comment, sinks)
	case CommitPaths:
		return e.commit(ctx, loc, op.Paths, op.Comment, sinks)
	case Checkout:
		return e.checkout(ctx, loc, op, sinks)
	case Update:
		return e.update(ctx, loc, "", sinks)
	case UpdateBranch:
		if op.BranchTag == "" {
			return e.reject(sinks, fmt.Errorf("%w: branch or tag is required", ErrInvalidOperation))
		}
		return e.update(ctx, loc, op.BranchTag, sinks)
	case Compare:
		return e.compare(ctx, loc, op.Path, sinks)
	case ShowChanges:
		return e.showChanges(ctx, loc, sinks)
	case SmartCommit:
		return e.smartCommit(ctx, loc, op, sinks)
	}

	return e.reject(sinks, fmt.Errorf("%w: %T", ErrInvalidOperation, op))
}

func (e *Executor) locate(loc Location) (Location, error) {
	if loc.Root == "" {
		loc.Root = e.config.DefaultRoot
	}
	if loc.Root == "" {
		return loc, fmt.Errorf("%w: repository root is required", ErrInvalidOperation)
	}
	if loc.WorkDir == "" {
		return loc, fmt.Errorf("%w: working directory is required", ErrInvalidOperation)
	}

	return loc, nil
}

type addMode int

const (
	addText addMode = iota
	addBinary
	addDir
)

func (e *Executor) add(ctx context.Context, loc Location, path string, mode addMode, sinks Sinks) Outcome {
	rel, err := normalizePath(path)
	if err != nil {
		return e.reject(sinks, err)
	}

	var success, failure string
	switch mode {
	case addText:
		success = fmt.Sprintf("Text file %s has been added to repository", rel)
		failure = fmt.Sprintf("Unable to add text file to repository: %s", rel)
	case addBinary:
		success = fmt.Sprintf("Binary file %s has been added to repository", rel)
		failure = fmt.Sprintf("Unable to add binary file to repository: %s", rel)
	case addDir:
		success = fmt.Sprintf("Directory %s has been added to repository", rel)
		failure = fmt.Sprintf("Unable to add directory to repository: %s", rel)
	}

	exit, err := e.run(ctx, loc, addArgs(loc.Root, rel, mode == addBinary), sinks, e.logOutput(sinks))
	return e.conclude(sinks, exit, err, success, failure)
}

func (e *Executor) remove(ctx context.Context, loc Location, path string, sinks Sinks) Outcome {
	rel, err := normalizePath(path)
	if err != nil {
		return e.reject(sinks, err)
	}

	exit, err := e.run(ctx, loc, removeArgs(loc.Root, rel), sinks, e.logOutput(sinks))
	return e.conclude(
		sinks, exit, err,
		fmt.Sprintf("File %s has been removed from repository", rel),
		fmt.Sprintf("Unable to remove file from repository: %s", rel),
	)
}

func (e *Executor) commit(ctx context.Context, loc Location, paths []string, comment string, sinks Sinks) Outcome {
	if len(paths) == 0 {
		msg := "Nothing to commit: no files have been selected"
		sinks.Messages.ShowInfo(msg)
		return Outcome{ExitCode: -1, Message: msg, Err: ErrNothingToCommit}
	}

	rel, err := normalizePaths(paths)
	if err != nil {
		return e.reject(sinks, err)
	}

	var success, failure string
	if len(rel) == 1 {
		success = fmt.Sprintf("File %s has been committed to repository", rel[0])
		failure = fmt.Sprintf("Unable to commit file to repository: %s", rel[0])
	} else {
		joined := strings.Join(rel, " ")
		success = fmt.Sprintf("Files %q have been committed to repository", joined)
		failure = fmt.Sprintf("Unable to commit files to repository: %q", joined)
	}

	exit, err := e.run(ctx, loc, commitArgs(loc.Root, comment, rel), sinks, e.logOutput(sinks))
	outcome := e.conclude(sinks, exit, err, success, failure)
	if outcome.Succeeded && e.session != nil {
		e.session.SetLastComment(comment)
	}

	return outcome
}

func (e *Executor) showChanges(ctx context.Context, loc Location, sinks Sinks) Outcome {
	raw, exit, err := e.dryRun(ctx, loc, sinks)
	if err != nil || !exit.Success() {
		return e.conclude(
			sinks, exit, err,
			"",
			fmt.Sprintf("Unable to show changes in local copy of repository: %s", loc.WorkDir),
		)
	}

	changes := changeset.Classify(raw)
	if changes.Empty() {
		reason := "no recognized status lines"
		if strings.TrimSpace(raw) == "" {
			reason = "no output"
		}
		e.logger.Debug("working copy has no changes", zap.String("work_dir", loc.WorkDir), zap.String("reason", reason))

		msg := fmt.Sprintf("There is no changes in local copy of repository: %s", loc.WorkDir)
		sinks.Messages.ShowModalInfo(msg)
		return Outcome{Succeeded: true, ExitCode: exit.Code, Message: msg, Changes: &changes}
	}

	summary := changes.Render()
	sinks.Messages.ShowModalInfo(summary)

	return Outcome{Succeeded: true, ExitCode: exit.Code, Message: summary, Changes: &changes}
}

func (e *Executor) dryRun(ctx context.Context, loc Location, sinks Sinks) (string, process.Exit, error) {
	var out strings.Builder
	exit, err := e.run(ctx, loc, dryRunArgs(loc.Root), sinks, func(chunk []byte) { out.Write(chunk) })

	return out.String(), exit, err
}

// run starts the client in the working copy and waits for it. Stderr always
// goes to the log sink.
func (e *Executor) run(
	ctx context.Context,
	loc Location,
	args []string,
	sinks Sinks,
	onStdout func([]byte),
) (process.Exit, error) {
	h, err := e.start(ctx, loc, args)
	if err != nil {
		return process.Exit{Code: -1, Signal: ""}, err
	}

	return process.Drain(h, onStdout, e.logOutput(sinks))
}

func (e *Executor) start(ctx context.Context, loc Location, args []string) (process.Handle, error) {
	//nolint:wrapcheck //already wrapped with ErrSpawn
	return e.runner.Start(ctx, process.Request{
		Executable: e.config.Binary,
		Args:       args,
		Dir:        loc.WorkDir,
	})
}

func (e *Executor) logOutput(sinks Sinks) func([]byte) {
	return func(chunk []byte) {
		sinks.Log.Append(string(chunk))
	}
}

// conclude turns a process result into an outcome and reports it. An empty
// success text reports nothing on success.
func (e *Executor) conclude(sinks Sinks, exit process.Exit, err error, success, failure string) Outcome {
	switch {
	case err != nil:
		msg := fmt.Sprintf("%s (%v)", failure, err)
		sinks.Messages.ShowError(msg)
		return Outcome{ExitCode: -1, Message: msg, Err: err}
	case !exit.Success():
		sinks.Messages.ShowError(failure)
		return Outcome{ExitCode: exit.Code, Message: failure, Err: clientFailure(exit)}
	}

	if success != "" {
		sinks.Messages.ShowInfo(success)
	}

	return Outcome{Succeeded: true, ExitCode: exit.Code, Message: success}
}

func (e *Executor) reject(sinks Sinks, err error) Outcome {
	sinks.Messages.ShowError(err.Error())
	return Outcome{ExitCode: -1, Message: err.Error(), Err: err}
}

func clientFailure(exit process.Exit) error {
	if exit.Signal != "" {
		return fmt.Errorf("%w: stopped by signal %s", ErrClientFailure, exit.Signal)
	}
	return fmt.Errorf("%w: exit code %d", ErrClientFailure, exit.Code)
}
