package cvs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/cvsbridge/cvsbridge/internal/cvs"
	"github.com/cvsbridge/cvsbridge/internal/process"
	"github.com/cvsbridge/cvsbridge/internal/process/processtest"
	"github.com/cvsbridge/cvsbridge/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

const root = ":pserver:dev@cvs.example.com:/repo"

type recorder struct {
	mu       sync.Mutex
	errors   []string
	infos    []string
	modals   []string
	logs     []string
	progress []cvs.Progress
	diffs    [][3]string

	diffClosed chan struct{}
	onDiff     func(left, right string)
}

func (r *recorder) ShowError(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errors = append(r.errors, text)
}

func (r *recorder) ShowInfo(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.infos = append(r.infos, text)
}

func (r *recorder) ShowModalInfo(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.modals = append(r.modals, text)
}

func (r *recorder) Append(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, text)
}

func (r *recorder) Report(p cvs.Progress) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.progress = append(r.progress, p)
}

func (r *recorder) ShowDiff(left, right, title string) <-chan struct{} {
	r.mu.Lock()
	r.diffs = append(r.diffs, [3]string{left, right, title})
	onDiff := r.onDiff
	r.mu.Unlock()

	if onDiff != nil {
		onDiff(left, right)
	}
	return r.diffClosed
}

func (r *recorder) sinks() cvs.Sinks {
	return cvs.Sinks{Messages: r, Log: r, Progress: r, Diff: r}
}

type fixture struct {
	executor *cvs.Executor
	runner   *processtest.Runner
	session  *session.Session
	registry *prometheus.Registry
	rec      *recorder
	workDir  string
}

func newFixture(t *testing.T, scripts ...processtest.Script) *fixture {
	t.Helper()

	registry := prometheus.NewRegistry()
	metrics, err := cvs.NewMetrics(registry)
	require.NoError(t, err)

	config := cvs.DefaultConfig()
	config.ProgressInterval = 10 * time.Millisecond

	runner := processtest.NewRunner(scripts...)
	s := session.New()

	return &fixture{
		executor: cvs.NewExecutor(config, runner, s, metrics, zaptest.NewLogger(t)),
		runner:   runner,
		session:  s,
		registry: registry,
		rec:      &recorder{},
		workDir:  t.TempDir(),
	}
}

func (f *fixture) loc() cvs.Location {
	return cvs.Location{Root: root, WorkDir: f.workDir}
}

func (f *fixture) execute(op cvs.Operation) cvs.Outcome {
	return f.executor.Execute(context.Background(), op, f.rec.sinks())
}

func TestExecute_ArgumentVectors(t *testing.T) {
	tests := []struct {
		name string
		op   func(loc cvs.Location) cvs.Operation
		args []string
	}{
		{
			name: "add text",
			op:   func(loc cvs.Location) cvs.Operation { return cvs.AddText{Location: loc, Path: "src/a.c"} },
			args: []string{"-d", root, "add", "src/a.c"},
		},
		{
			name: "add binary",
			op:   func(loc cvs.Location) cvs.Operation { return cvs.AddBinary{Location: loc, Path: "img/logo.png"} },
			args: []string{"-d", root, "add", "-kb", "img/logo.png"},
		},
		{
			name: "add directory",
			op:   func(loc cvs.Location) cvs.Operation { return cvs.AddDir{Location: loc, Path: "docs"} },
			args: []string{"-d", root, "add", "docs"},
		},
		{
			name: "remove",
			op:   func(loc cvs.Location) cvs.Operation { return cvs.Remove{Location: loc, Path: "old.txt"} },
			args: []string{"-d", root, "remove", "old.txt"},
		},
		{
			name: "commit single",
			op: func(loc cvs.Location) cvs.Operation {
				return cvs.CommitFile{Location: loc, Path: "a.txt", Comment: "fix bug"}
			},
			args: []string{"-d", root, "commit", "-m", "fix bug", "a.txt"},
		},
		{
			name: "commit many",
			op: func(loc cvs.Location) cvs.Operation {
				return cvs.CommitPaths{Location: loc, Paths: []string{"a.txt", "dir/b.txt"}, Comment: "batch"}
			},
			args: []string{"-d", root, "commit", "-m", "batch", "a.txt", "dir/b.txt"},
		},
		{
			name: "checkout with tag",
			op: func(loc cvs.Location) cvs.Operation {
				return cvs.Checkout{Location: loc, Module: "project", BranchTag: "REL_1_0"}
			},
			args: []string{"-d", root, "checkout", "-r", "REL_1_0", "project"},
		},
		{
			name: "checkout main line",
			op:   func(loc cvs.Location) cvs.Operation { return cvs.Checkout{Location: loc, Module: "project"} },
			args: []string{"-d", root, "checkout", "project"},
		},
		{
			name: "update",
			op:   func(loc cvs.Location) cvs.Operation { return cvs.Update{Location: loc} },
			args: []string{"-d", root, "update", "-d", "-P", "."},
		},
		{
			name: "update to branch",
			op:   func(loc cvs.Location) cvs.Operation { return cvs.UpdateBranch{Location: loc, BranchTag: "dev"} },
			args: []string{"-d", root, "update", "-r", "dev", "-d", "-P", "."},
		},
		{
			name: "show changes",
			op:   func(loc cvs.Location) cvs.Operation { return cvs.ShowChanges{Location: loc} },
			args: []string{"-d", root, "-qn", "update"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			outcome := f.execute(tt.op(f.loc()))
			require.True(t, outcome.Succeeded, outcome.Message)

			calls := f.runner.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, "cvs", calls[0].Executable)
			assert.Equal(t, f.workDir, calls[0].Dir)
			assert.Equal(t, tt.args, calls[0].Args)
		})
	}
}

func TestExecute_ClientFailure(t *testing.T) {
	f := newFixture(t, processtest.Script{Stderr: []string{"cvs add: nothing known about a.txt\n"}, Code: 1})

	outcome := f.execute(cvs.AddText{Location: f.loc(), Path: "a.txt"})

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, 1, outcome.ExitCode)
	assert.ErrorIs(t, outcome.Err, cvs.ErrClientFailure)
	assert.Equal(t, []string{"Unable to add text file to repository: a.txt"}, f.rec.errors)
	assert.Equal(t, []string{"cvs add: nothing known about a.txt\n"}, f.rec.logs)
	assert.Empty(t, f.rec.infos)
}

func TestExecute_SpawnError(t *testing.T) {
	f := newFixture(t, processtest.Script{SpawnErr: os.ErrNotExist})

	outcome := f.execute(cvs.Remove{Location: f.loc(), Path: "gone.txt"})

	assert.False(t, outcome.Succeeded)
	assert.Equal(t, -1, outcome.ExitCode)
	assert.ErrorIs(t, outcome.Err, cvs.ErrSpawn)
	assert.ErrorIs(t, outcome.Err, process.ErrSpawn)
	require.Len(t, f.rec.errors, 1)
	assert.Contains(t, f.rec.errors[0], "Unable to remove file from repository: gone.txt")
	assert.Equal(t, 1, f.runner.CallCount())
}

func TestExecute_RejectsInvalidInput(t *testing.T) {
	f := newFixture(t)

	abs := filepath.Join(f.workDir, "a.txt")
	tests := []struct {
		name string
		op   cvs.Operation
		err  error
	}{
		{"absolute path", cvs.AddText{Location: f.loc(), Path: abs}, cvs.ErrInvalidPath},
		{"escaping path", cvs.Remove{Location: f.loc(), Path: "../other/a.txt"}, cvs.ErrInvalidPath},
		{"empty path", cvs.Compare{Location: f.loc()}, cvs.ErrInvalidPath},
		{"missing root", cvs.Update{Location: cvs.Location{WorkDir: f.workDir}}, cvs.ErrInvalidOperation},
		{"missing module", cvs.Checkout{Location: f.loc()}, cvs.ErrInvalidOperation},
		{"missing branch", cvs.UpdateBranch{Location: f.loc()}, cvs.ErrInvalidOperation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			outcome := f.execute(tt.op)
			assert.False(t, outcome.Succeeded)
			assert.ErrorIs(t, outcome.Err, tt.err)
		})
	}

	assert.Zero(t, f.runner.CallCount())
}

func TestExecute_DefaultRoot(t *testing.T) {
	config := cvs.DefaultConfig()
	config.DefaultRoot = "/srv/cvsroot"
	runner := processtest.NewRunner()
	executor := cvs.NewExecutor(config, runner, session.New(), nil, zaptest.NewLogger(t))

	outcome := executor.Execute(context.Background(), cvs.Update{Location: cvs.Location{WorkDir: t.TempDir()}}, cvs.Sinks{})

	require.True(t, outcome.Succeeded)
	assert.Equal(t, []string{"-d", "/srv/cvsroot", "update", "-d", "-P", "."}, runner.Calls()[0].Args)
}

func TestCommit_EmptyPathsNeverSpawns(t *testing.T) {
	f := newFixture(t)

	outcome := f.execute(cvs.CommitPaths{Location: f.loc(), Comment: "nothing"})

	assert.False(t, outcome.Succeeded)
	assert.ErrorIs(t, outcome.Err, cvs.ErrNothingToCommit)
	assert.Zero(t, f.runner.CallCount())
	assert.Len(t, f.rec.infos, 1)
	assert.Empty(t, f.rec.errors)
	assert.Empty(t, f.session.LastComment())
}

func TestCommit_UpdatesLastComment(t *testing.T) {
	f := newFixture(t, processtest.Script{Code: 0}, processtest.Script{Code: 1})

	outcome := f.execute(cvs.CommitFile{Location: f.loc(), Path: "a.txt", Comment: "fix bug"})
	require.True(t, outcome.Succeeded)
	assert.Equal(t, "fix bug", f.session.LastComment())

	outcome = f.execute(cvs.CommitFile{Location: f.loc(), Path: "a.txt", Comment: "broken"})
	require.False(t, outcome.Succeeded)
	assert.Equal(t, 1, outcome.ExitCode)
	assert.Equal(t, "fix bug", f.session.LastComment())
}

func TestLongRun_CancelledBeforeStart(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, op := range []cvs.Operation{
		cvs.Checkout{Location: f.loc(), Module: "project"},
		cvs.Update{Location: f.loc()},
		cvs.UpdateBranch{Location: f.loc(), BranchTag: "dev"},
	} {
		outcome := f.executor.Execute(ctx, op, f.rec.sinks())
		assert.True(t, outcome.Cancelled)
		assert.NoError(t, outcome.Err)
		assert.Equal(t, cvs.StateCancelled, outcome.State())
	}

	assert.Zero(t, f.runner.CallCount())
	assert.Empty(t, f.rec.progress)
	assert.Empty(t, f.rec.errors)
	assert.Empty(t, f.rec.infos)
}

func TestLongRun_CancelledWhileRunning(t *testing.T) {
	f := newFixture(t, processtest.Script{
		Stdout:      []string{"U project/a.txt\n"},
		UntilCancel: true,
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan cvs.Outcome, 1)
	go func() {
		done <- f.executor.Execute(ctx, cvs.Checkout{Location: f.loc(), Module: "project"}, f.rec.sinks())
	}()

	require.Eventually(t, func() bool { return f.runner.Handle(0) != nil }, time.Second, time.Millisecond)
	<-f.runner.Handle(0).Started()
	cancel()

	select {
	case outcome := <-done:
		assert.True(t, outcome.Cancelled)
		assert.False(t, outcome.Succeeded)
		assert.NoError(t, outcome.Err)
	case <-time.After(5 * time.Second):
		t.Fatal("operation did not resolve after cancellation")
	}

	assert.True(t, f.runner.Handle(0).Cancelled())
	assert.Equal(t, []string{"Checkout of module project has been cancelled"}, f.rec.infos)

	last := f.rec.progress[len(f.rec.progress)-1]
	assert.Equal(t, cvs.StateCancelled, last.State)
}

func TestLongRun_Progress(t *testing.T) {
	long := "U very/long/path/to/a/file/that/does/not/fit/into/the/progress/line.txt\r\n"
	f := newFixture(t, processtest.Script{Stdout: []string{"U project/a.txt\n", long}})

	outcome := f.execute(cvs.Checkout{Location: f.loc(), Module: "project", BranchTag: "REL_1_0"})
	require.True(t, outcome.Succeeded)
	assert.Equal(t, []string{"Module project has been checked out from repository"}, f.rec.infos)

	assert.Equal(t, []string{"project/a.txt\n", long[2:]}, f.rec.logs)

	first := f.rec.progress[0]
	assert.Equal(t, cvs.Progress{State: cvs.StateStarting, Text: "starting up..."}, first)

	texts := make([]string, 0, len(f.rec.progress))
	for _, p := range f.rec.progress {
		texts = append(texts, p.Text)
	}
	assert.Contains(t, texts, "project/a.txt")
	assert.Contains(t, texts, long[2:52])

	last := f.rec.progress[len(f.rec.progress)-1]
	assert.Equal(t, cvs.StateSucceeded, last.State)
}

func TestLongRun_Failure(t *testing.T) {
	f := newFixture(t, processtest.Script{Code: 1})

	outcome := f.execute(cvs.UpdateBranch{Location: f.loc(), BranchTag: "dev"})

	assert.False(t, outcome.Succeeded)
	assert.False(t, outcome.Cancelled)
	assert.ErrorIs(t, outcome.Err, cvs.ErrClientFailure)
	require.Len(t, f.rec.errors, 1)
	assert.Contains(t, f.rec.errors[0], "to branch or tag dev")
	assert.Equal(t, cvs.StateFailed, f.rec.progress[len(f.rec.progress)-1].State)
}

func TestShowChanges_RendersGroups(t *testing.T) {
	f := newFixture(t, processtest.Script{Stdout: []string{"M a.txt\nA b.txt\n? c.txt\n"}})

	outcome := f.execute(cvs.ShowChanges{Location: f.loc()})

	require.True(t, outcome.Succeeded)
	expected := "Modified:\n    a.txt\n\nAdded:\n    b.txt\n\nUncontrolled:\n    c.txt"
	assert.Equal(t, []string{expected}, f.rec.modals)
	assert.Equal(t, expected, outcome.Message)
	require.NotNil(t, outcome.Changes)
	assert.Equal(t, []string{"a.txt"}, outcome.Changes.Modified)
}

func TestShowChanges_NoChanges(t *testing.T) {
	for name, stdout := range map[string][]string{
		"no output":     nil,
		"unrecognized":  {"cvs update: Updating .\n"},
		"only newlines": {"\r\n"},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t, processtest.Script{Stdout: stdout})

			outcome := f.execute(cvs.ShowChanges{Location: f.loc()})

			require.True(t, outcome.Succeeded)
			assert.Equal(t, []string{"There is no changes in local copy of repository: " + f.workDir}, f.rec.modals)
		})
	}
}

func TestShowChanges_DryRunFailure(t *testing.T) {
	f := newFixture(t, processtest.Script{Code: 1})

	outcome := f.execute(cvs.ShowChanges{Location: f.loc()})

	assert.False(t, outcome.Succeeded)
	assert.Empty(t, f.rec.modals)
	assert.Equal(t, []string{"Unable to show changes in local copy of repository: " + f.workDir}, f.rec.errors)
}

func TestDiscover(t *testing.T) {
	f := newFixture(t, processtest.Script{Stdout: []string{"R gone.txt\nU remote.txt\n"}})

	changes, err := f.executor.Discover(context.Background(), f.loc())

	require.NoError(t, err)
	assert.Equal(t, []string{"gone.txt"}, changes.Removed)
	assert.Equal(t, []string{"remote.txt"}, changes.Updated)
	assert.Empty(t, f.rec.modals)
}

func TestMetrics(t *testing.T) {
	f := newFixture(t, processtest.Script{Code: 0}, processtest.Script{Code: 1})

	f.execute(cvs.AddText{Location: f.loc(), Path: "a.txt"})
	f.execute(cvs.AddText{Location: f.loc(), Path: "b.txt"})

	count, err := testutil.GatherAndCount(f.registry, "cvs_operations_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(f.registry, "cvs_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestNewMetrics_ReusesRegistered(t *testing.T) {
	registry := prometheus.NewRegistry()

	first, err := cvs.NewMetrics(registry)
	require.NoError(t, err)
	second, err := cvs.NewMetrics(registry)
	require.NoError(t, err)

	assert.NotNil(t, first)
	assert.NotNil(t, second)
}

func TestOutcome_State(t *testing.T) {
	assert.Equal(t, cvs.StateSucceeded, cvs.Outcome{Succeeded: true}.State())
	assert.Equal(t, cvs.StateFailed, cvs.Outcome{Err: errors.New("boom")}.State())
	assert.Equal(t, cvs.StateCancelled, cvs.Outcome{Cancelled: true}.State())
	assert.True(t, cvs.StateCancelled.Terminal())
	assert.False(t, cvs.StateRunning.Terminal())
}
