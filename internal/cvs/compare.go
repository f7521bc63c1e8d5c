package cvs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
)

type comparison struct {
	rel    string
	local  string
	backup string
	clean  string
}

func (e *Executor) newComparison(loc Location, rel string) comparison {
	local := filepath.Join(loc.WorkDir, filepath.FromSlash(rel))
	ext := filepath.Ext(local)

	return comparison{
		rel:    rel,
		local:  local,
		backup: local + e.config.BackupSuffix,
		clean:  strings.TrimSuffix(local, ext) + e.config.CleanCopySuffix + ext,
	}
}

// compare fetches the repository copy of a file next to the local one and
// opens both in the diff viewer. The local file is moved aside while the
// client writes the clean copy and is always put back.
func (e *Executor) compare(ctx context.Context, loc Location, path string, sinks Sinks) Outcome {
	rel, err := normalizePath(path)
	if err != nil {
		return e.reject(sinks, err)
	}

	c := e.newComparison(loc, rel)
	unlock := e.lockFile(c.local)
	defer unlock()

	logger := e.logger.With(zap.String("file", c.local))

	if renameErr := os.Rename(c.local, c.backup); renameErr != nil {
		return e.fsFailure(sinks, fmt.Sprintf("Unable to backup file: %s", rel), renameErr)
	}

	fetchFailure := fmt.Sprintf("Unable to get clean copy of file: %s from repository", rel)

	exit, err := e.run(ctx, loc, fetchArgs(loc.Root, rel), sinks, e.logOutput(sinks))
	if err != nil || !exit.Success() {
		outcome := e.conclude(sinks, exit, err, "", fetchFailure)
		return e.restore(sinks, c, outcome)
	}

	if _, statErr := os.Stat(c.local); statErr != nil {
		sinks.Messages.ShowError(fetchFailure)
		return e.restore(sinks, c, Outcome{
			ExitCode: exit.Code,
			Message:  fetchFailure,
			Err:      fmt.Errorf("%w: %w: %s", ErrFilesystem, ErrNoCleanCopy, rel),
		})
	}

	if renameErr := os.Rename(c.local, c.clean); renameErr != nil {
		outcome := e.fsFailure(sinks, fmt.Sprintf("Unable to move clean copy of file: %s", rel), renameErr)
		outcome.ExitCode = exit.Code
		return e.restore(sinks, c, outcome)
	}

	if renameErr := os.Rename(c.backup, c.local); renameErr != nil {
		outcome := e.fsFailure(sinks, fmt.Sprintf("Unable to restore backed up file: %s", rel), renameErr)
		outcome.ExitCode = exit.Code
		outcome.Err = errors.Join(outcome.Err, ErrRestoreFailed)
		e.removeCleanCopy(logger, c.clean)
		return outcome
	}

	title := fmt.Sprintf("remote ↔ local (%s)", rel)
	closed := sinks.Diff.ShowDiff(c.clean, c.local, title)
	if closed == nil {
		e.removeCleanCopy(logger, c.clean)
	} else {
		go func() {
			<-closed
			e.removeCleanCopy(logger, c.clean)
		}()
	}

	return Outcome{Succeeded: true, ExitCode: exit.Code, Message: title}
}

// restore puts the backup back in place after a failed step. A failure
// here is reported on its own and joined to the original error.
func (e *Executor) restore(sinks Sinks, c comparison, outcome Outcome) Outcome {
	if _, err := os.Lstat(c.local); err == nil {
		if rmErr := os.Remove(c.local); rmErr != nil {
			e.logger.Warn("failed to remove partial clean copy", zap.String("file", c.local), zap.Error(rmErr))
		}
	}

	if err := os.Rename(c.backup, c.local); err != nil {
		sinks.Messages.ShowError(fmt.Sprintf("Unable to restore backed up file: %s", c.rel))
		outcome.Err = errors.Join(outcome.Err, fmt.Errorf("%w: %s: %w", ErrRestoreFailed, c.rel, err))
	}

	return outcome
}

func (e *Executor) fsFailure(sinks Sinks, msg string, err error) Outcome {
	sinks.Messages.ShowError(msg)
	return Outcome{
		ExitCode: -1,
		Message:  msg,
		Err:      fmt.Errorf("%w: %w", ErrFilesystem, err),
	}
}

func (e *Executor) removeCleanCopy(logger *zap.Logger, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Debug("failed to remove clean copy", zap.String("clean_copy", path), zap.Error(err))
	}
}

type fileLock struct {
	mu      sync.Mutex
	holders int
}

// lockFile serializes compares of one file. The entry is dropped once no
// compare holds or waits for it.
func (e *Executor) lockFile(path string) func() {
	e.filesMu.Lock()
	l, ok := e.files[path]
	if !ok {
		l = new(fileLock)
		e.files[path] = l
	}
	l.holders++
	e.filesMu.Unlock()

	l.mu.Lock()

	return func() {
		l.mu.Unlock()

		e.filesMu.Lock()
		l.holders--
		if l.holders == 0 {
			delete(e.files, path)
		}
		e.filesMu.Unlock()
	}
}
