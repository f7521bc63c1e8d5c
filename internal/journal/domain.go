// Package journal keeps the history of executed operations.
package journal

import (
	"time"

	"github.com/cvsbridge/cvsbridge/internal/changeset"
	"github.com/cvsbridge/cvsbridge/internal/cvs"
	"github.com/google/uuid"
)

type Level string

const (
	LevelError Level = "error"
	LevelInfo  Level = "info"
	LevelModal Level = "modal"
)

// Message is one user-facing notification emitted by a run.
type Message struct {
	Level Level
	Text  string
	At    time.Time
}

type RecordDraft struct {
	// Operation
	Kind     cvs.Kind
	Location cvs.Location
	Target   string

	// Status
	State       cvs.State
	Progress    string
	StartedAt   time.Time
	CompletedAt *time.Time

	// Result
	ExitCode int
	Message  string
	Error    string
	Changes  *changeset.Changeset
	Diff     string

	// Output
	Messages []Message
	Log      []string
}

type Record struct {
	RecordDraft

	ID        uuid.UUID
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Record) Finished() bool {
	return r.State.Terminal()
}

// Complete records the outcome and marks the record finished at completedAt.
func (r *Record) Complete(outcome cvs.Outcome, completedAt time.Time) {
	r.State = outcome.State()
	r.ExitCode = outcome.ExitCode
	r.Message = outcome.Message
	r.Changes = outcome.Changes
	r.CompletedAt = &completedAt
	r.Error = ""
	if outcome.Err != nil {
		r.Error = outcome.Err.Error()
	}
}
