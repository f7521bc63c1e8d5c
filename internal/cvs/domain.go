package cvs

import (
	"strings"

	"github.com/cvsbridge/cvsbridge/internal/changeset"
)

// Location pairs a repository with the working copy it is checked out to.
type Location struct {
	Root    string `json:"root"`
	WorkDir string `json:"work_dir"`
}

func (l Location) Where() Location {
	return l
}

type Kind string

const (
	KindAddText      Kind = "add"
	KindAddBinary    Kind = "add-binary"
	KindAddDir       Kind = "add-dir"
	KindRemove       Kind = "remove"
	KindCommitFile   Kind = "commit"
	KindCommitPaths  Kind = "commit-many"
	KindCheckout     Kind = "checkout"
	KindUpdate       Kind = "update"
	KindUpdateBranch Kind = "update-branch"
	KindCompare      Kind = "compare"
	KindShowChanges  Kind = "show-changes"
	KindSmartCommit  Kind = "smart-commit"
)

// Operation is implemented only by the variants in this file.
type Operation interface {
	Kind() Kind
	Where() Location
	Target() string

	isOperation()
}

type AddText struct {
	Location
	Path string
}

type AddBinary struct {
	Location
	Path string
}

// AddDir registers the directory entry only, not its contents.
type AddDir struct {
	Location
	Path string
}

// Remove schedules a file that is already gone from the working copy for
// removal from the repository.
type Remove struct {
	Location
	Path string
}

type CommitFile struct {
	Location
	Path    string
	Comment string
}

type CommitPaths struct {
	Location
	Paths   []string
	Comment string
}

// Checkout retrieves Module into the working directory. An empty BranchTag
// checks out the main line.
type Checkout struct {
	Location
	Module    string
	BranchTag string
}

type Update struct {
	Location
}

type UpdateBranch struct {
	Location
	BranchTag string
}

type Compare struct {
	Location
	Path string
}

type ShowChanges struct {
	Location
}

// SmartCommit adds the selected uncontrolled files, removes the selected
// files that vanished locally and commits everything in one go. Leaving all
// selections empty selects every reported change.
type SmartCommit struct {
	Location
	Comment   string
	Commit    []string
	Add       []string
	AddBinary []string
	Remove    []string
}

func (AddText) Kind() Kind      { return KindAddText }
func (AddBinary) Kind() Kind    { return KindAddBinary }
func (AddDir) Kind() Kind       { return KindAddDir }
func (Remove) Kind() Kind       { return KindRemove }
func (CommitFile) Kind() Kind   { return KindCommitFile }
func (CommitPaths) Kind() Kind  { return KindCommitPaths }
func (Checkout) Kind() Kind     { return KindCheckout }
func (Update) Kind() Kind       { return KindUpdate }
func (UpdateBranch) Kind() Kind { return KindUpdateBranch }
func (Compare) Kind() Kind      { return KindCompare }
func (ShowChanges) Kind() Kind  { return KindShowChanges }
func (SmartCommit) Kind() Kind  { return KindSmartCommit }

func (op AddText) Target() string      { return op.Path }
func (op AddBinary) Target() string    { return op.Path }
func (op AddDir) Target() string       { return op.Path }
func (op Remove) Target() string       { return op.Path }
func (op CommitFile) Target() string   { return op.Path }
func (op CommitPaths) Target() string  { return strings.Join(op.Paths, " ") }
func (op Checkout) Target() string     { return op.Module }
func (op Update) Target() string       { return "." }
func (op UpdateBranch) Target() string { return op.BranchTag }
func (op Compare) Target() string      { return op.Path }
func (op ShowChanges) Target() string  { return "." }
func (op SmartCommit) Target() string  { return "." }

func (AddText) isOperation()      {}
func (AddBinary) isOperation()    {}
func (AddDir) isOperation()       {}
func (Remove) isOperation()       {}
func (CommitFile) isOperation()   {}
func (CommitPaths) isOperation()  {}
func (Checkout) isOperation()     {}
func (Update) isOperation()       {}
func (UpdateBranch) isOperation() {}
func (Compare) isOperation()      {}
func (ShowChanges) isOperation()  {}
func (SmartCommit) isOperation()  {}

// IsLongRunning reports whether op streams progress and may be cancelled
// while its process runs.
func IsLongRunning(op Operation) bool {
	switch op.(type) {
	case Checkout, Update, UpdateBranch:
		return true
	}
	return false
}

// IsReadOnly reports whether op leaves the working copy untouched.
func IsReadOnly(op Operation) bool {
	_, ok := op.(ShowChanges)
	return ok
}

type State string

const (
	StateIdle      State = "idle"
	StateStarting  State = "starting"
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateCancelled State = "cancelled"
)

func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed || s == StateCancelled
}

type Progress struct {
	State State
	Text  string
}

// Outcome is the result of one Execute call. ExitCode is -1 when no process
// exit was observed.
type Outcome struct {
	Succeeded bool
	Cancelled bool
	ExitCode  int
	Message   string

	// Err classifies a failure; match it with errors.Is.
	Err error
	// Changes is set by operations that inspect the working copy.
	Changes *changeset.Changeset
}

func (o Outcome) State() State {
	switch {
	case o.Cancelled:
		return StateCancelled
	case o.Succeeded:
		return StateSucceeded
	default:
		return StateFailed
	}
}
