package operations

import (
	"errors"
	"strings"
	"time"

	"github.com/cvsbridge/cvsbridge/internal/changeset"
	"github.com/cvsbridge/cvsbridge/internal/cvs"
	"github.com/cvsbridge/cvsbridge/internal/journal"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

const (
	ModeText   = "text"
	ModeBinary = "binary"
	ModeDir    = "dir"
)

// Location names the repository and the working copy. An empty root falls
// back to the configured default.
type Location struct {
	Root    string `json:"root"     validate:"max=1024"`
	WorkDir string `json:"work_dir" validate:"max=4096"`
}

func (l Location) location() cvs.Location {
	return cvs.Location{Root: l.Root, WorkDir: l.WorkDir}
}

// AddRequest represents the request payload for adding a file or directory.
type AddRequest struct {
	Location

	Path string `json:"path" validate:"required,max=4096"`
	Mode string `json:"mode" validate:"omitempty,oneof=text binary dir"`
}

type RemoveRequest struct {
	Location

	Path string `json:"path" validate:"required,max=4096"`
}

// CommitRequest represents the request payload for committing files. A
// single path is committed as one file.
type CommitRequest struct {
	Location

	Paths   []string `json:"paths"   validate:"dive,required,max=4096"`
	Comment string   `json:"comment" validate:"required,max=10000"`
}

func (r *CommitRequest) Validate() error {
	return requireComment(r.Comment)
}

type CheckoutRequest struct {
	Location

	Module    string `json:"module"     validate:"required,max=1024"`
	BranchTag string `json:"branch_tag" validate:"max=255"`
}

type UpdateRequest struct {
	Location

	BranchTag string `json:"branch_tag" validate:"max=255"`
}

type CompareRequest struct {
	Location

	Path string `json:"path" validate:"required,max=4096"`
}

type ShowChangesRequest struct {
	Location
}

// SmartCommitRequest selects what to commit. Leaving every list empty
// selects all reported changes.
type SmartCommitRequest struct {
	Location

	Comment   string   `json:"comment"    validate:"required,max=10000"`
	Commit    []string `json:"commit"     validate:"dive,required,max=4096"`
	Add       []string `json:"add"        validate:"dive,required,max=4096"`
	AddBinary []string `json:"add_binary" validate:"dive,required,max=4096"`
	Remove    []string `json:"remove"     validate:"dive,required,max=4096"`
}

func (r *SmartCommitRequest) Validate() error {
	if err := requireComment(r.Comment); err != nil {
		return err
	}
	if both := lo.Intersect(r.Add, r.AddBinary); len(both) > 0 {
		return errors.New("a path cannot be added both as text and binary")
	}
	return nil
}

func requireComment(comment string) error {
	if strings.TrimSpace(comment) == "" {
		return errors.New("comment must not be blank")
	}
	return nil
}

// ListQuery represents the query of the run listing.
type ListQuery struct {
	Limit   int    `query:"limit"    validate:"omitempty,min=1,max=1000"`
	WorkDir string `query:"work_dir" validate:"max=4096"`
}

type MessageResponse struct {
	Level string    `json:"level"`
	Text  string    `json:"text"`
	At    time.Time `json:"at"`
}

// RunResponse represents one executed or running operation.
type RunResponse struct {
	ID uuid.UUID `json:"id"`

	// Operation
	Kind    string `json:"kind"`
	Root    string `json:"root"`
	WorkDir string `json:"work_dir"`
	Target  string `json:"target"`

	// Status
	State       string     `json:"state"`
	Progress    string     `json:"progress,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`

	// Result
	ExitCode int                  `json:"exit_code"`
	Message  string               `json:"message"`
	Error    string               `json:"error,omitempty"`
	Changes  *changeset.Changeset `json:"changes,omitempty"`
	Diff     string               `json:"diff,omitempty"`

	// Output
	Messages []MessageResponse `json:"messages"`
	Log      []string          `json:"log"`

	// Timestamps
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newRunResponse(record *journal.Record) RunResponse {
	return RunResponse{
		ID:          record.ID,
		Kind:        string(record.Kind),
		Root:        record.Location.Root,
		WorkDir:     record.Location.WorkDir,
		Target:      record.Target,
		State:       string(record.State),
		Progress:    record.Progress,
		StartedAt:   record.StartedAt,
		CompletedAt: record.CompletedAt,
		ExitCode:    record.ExitCode,
		Message:     record.Message,
		Error:       record.Error,
		Changes:     record.Changes,
		Diff:        record.Diff,
		Messages: lo.Map(record.Messages, func(m journal.Message, _ int) MessageResponse {
			return MessageResponse{Level: string(m.Level), Text: m.Text, At: m.At}
		}),
		Log:       lo.Ternary(record.Log == nil, []string{}, record.Log),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}
}
