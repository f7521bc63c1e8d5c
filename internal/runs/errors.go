package runs

import (
	"errors"

	"github.com/cvsbridge/cvsbridge/internal/journal"
)

var (
	ErrNotFound   = journal.ErrNotFound
	ErrBusy       = errors.New("working copy is busy")
	ErrNotRunning = errors.New("run is not running")
	ErrRejected   = errors.New("operation rejected")
)
