package cvs

import (
	"errors"

	"github.com/cvsbridge/cvsbridge/internal/process"
)

var (
	ErrSpawn            = process.ErrSpawn
	ErrClientFailure    = errors.New("client exited with failure")
	ErrFilesystem       = errors.New("filesystem operation failed")
	ErrNoCleanCopy      = errors.New("clean copy not fetched")
	ErrRestoreFailed    = errors.New("failed to restore backup")
	ErrNothingToCommit  = errors.New("nothing to commit")
	ErrInvalidPath      = errors.New("invalid path")
	ErrInvalidOperation = errors.New("invalid operation")
)
