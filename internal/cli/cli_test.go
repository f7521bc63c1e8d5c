package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cvsbridge/cvsbridge/internal/cli"
	"github.com/cvsbridge/cvsbridge/internal/process"
	"github.com/cvsbridge/cvsbridge/internal/process/processtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = ":pserver:dev@cvs.example.com:/repo"

type harness struct {
	runner  *processtest.Runner
	workDir string
	dataDir string
}

func newHarness(t *testing.T, scripts ...processtest.Script) *harness {
	t.Helper()

	return &harness{
		runner:  processtest.NewRunner(scripts...),
		workDir: t.TempDir(),
		dataDir: "",
	}
}

// persistent keeps the journal on disk between commands.
func (h *harness) persistent(t *testing.T) *harness {
	t.Helper()

	h.dataDir = t.TempDir()
	return h
}

// execute runs one cvsctl invocation and captures its output.
func (h *harness) execute(args ...string) (string, string, error) {
	stdout := new(bytes.Buffer)
	stderr := new(bytes.Buffer)

	global := []string{"-d", root, "-C", h.workDir}
	if h.dataDir == "" {
		global = append(global, "--ephemeral")
	} else {
		global = append(global, "--data-dir", h.dataDir)
	}

	cmd := cli.NewRootCommand(cli.Options{Version: "test", Runner: h.runner})
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(append(args, global...))

	err := cmd.ExecuteContext(context.Background())

	return stdout.String(), stderr.String(), err
}

func (h *harness) args(t *testing.T, i int) []string {
	t.Helper()

	calls := h.runner.Calls()
	require.Greater(t, len(calls), i)
	return calls[i].Args
}

func TestRootCommand_Help(t *testing.T) {
	stdout, _, err := newHarness(t).execute("--help")
	require.NoError(t, err)

	for _, name := range []string{
		"add", "remove", "commit", "checkout", "update", "compare",
		"show-changes", "smart-commit", "status", "watch", "history", "show",
	} {
		assert.Contains(t, stdout, name)
	}
	assert.Contains(t, stdout, "--workdir")
	assert.Contains(t, stdout, "--ephemeral")
}

func TestRootCommand_Version(t *testing.T) {
	stdout, _, err := newHarness(t).execute("--version")
	require.NoError(t, err)
	assert.Equal(t, "cvsctl version test\n", stdout)
}

func TestAdd(t *testing.T) {
	h := newHarness(t, processtest.Script{Code: 0})

	stdout, _, err := h.execute("add", "a.txt", filepath.Join(h.workDir, "docs", "b.txt"))
	require.NoError(t, err)

	assert.Contains(t, stdout, "Text file a.txt has been added to repository")
	assert.Contains(t, stdout, "Text file docs/b.txt has been added to repository")
	assert.Equal(t, []string{"-d", root, "add", "a.txt"}, h.args(t, 0))
	assert.Equal(t, []string{"-d", root, "add", "docs/b.txt"}, h.args(t, 1))
	assert.Equal(t, h.workDir, h.runner.Calls()[0].Dir)
}

func TestAdd_Binary(t *testing.T) {
	h := newHarness(t, processtest.Script{Code: 0})

	stdout, _, err := h.execute("add", "--binary", "logo.png")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Binary file logo.png has been added to repository")
	assert.Equal(t, []string{"-d", root, "add", "-kb", "logo.png"}, h.args(t, 0))
}

func TestAdd_BinaryAndDirAreExclusive(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.execute("add", "--binary", "--dir", "x")
	require.Error(t, err)
	assert.Zero(t, h.runner.CallCount())
}

func TestAdd_Failure(t *testing.T) {
	h := newHarness(t, processtest.Script{Code: 1, Stderr: []string{"cvs add: nothing known about a.txt\n"}})

	_, stderr, err := h.execute("add", "a.txt")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "failed")
	assert.Contains(t, stderr, "Unable to add text file to repository: a.txt")
	assert.Contains(t, stderr, "cvs add: nothing known about a.txt")
}

func TestAdd_OutsideWorkingCopy(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.execute("add", filepath.Join(filepath.Dir(h.workDir), "elsewhere.txt"))
	require.Error(t, err)
	assert.Zero(t, h.runner.CallCount())
}

func TestRemove(t *testing.T) {
	h := newHarness(t, processtest.Script{Code: 0})

	stdout, _, err := h.execute("remove", "gone.txt")
	require.NoError(t, err)

	assert.Contains(t, stdout, "File gone.txt has been removed from repository")
	assert.Equal(t, []string{"-d", root, "remove", "gone.txt"}, h.args(t, 0))
}

func TestCommit(t *testing.T) {
	h := newHarness(t, processtest.Script{Code: 0})

	_, _, err := h.execute("commit", "-m", "fix build", "a.c", "b.c")
	require.NoError(t, err)

	assert.Equal(t, []string{"-d", root, "commit", "-m", "fix build", "a.c", "b.c"}, h.args(t, 0))
}

func TestCommit_RequiresComment(t *testing.T) {
	h := newHarness(t)

	_, _, err := h.execute("commit", "a.c")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "commit comment is required")
	assert.Zero(t, h.runner.CallCount())
}

func TestCommit_ReusesLastComment(t *testing.T) {
	h := newHarness(t, processtest.Script{Code: 0}).persistent(t)

	_, _, err := h.execute("commit", "-m", "first pass", "a.c")
	require.NoError(t, err)

	_, _, err = h.execute("commit", "b.c")
	require.NoError(t, err)

	assert.Equal(t, []string{"-d", root, "commit", "-m", "first pass", "b.c"}, h.args(t, 1))
}

func TestCheckout(t *testing.T) {
	h := newHarness(t, processtest.Script{Code: 0, Stdout: []string{"U module/a.c\n"}})

	_, _, err := h.execute("checkout", "-r", "REL_1", "module")
	require.NoError(t, err)

	assert.Equal(t, []string{"-d", root, "checkout", "-r", "REL_1", "module"}, h.args(t, 0))
}

func TestUpdate_Failure(t *testing.T) {
	h := newHarness(t, processtest.Script{Code: 1})

	_, _, err := h.execute("update")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "update failed")
	assert.Equal(t, []string{"-d", root, "update", "-d", "-P", "."}, h.args(t, 0))
}

func TestUpdate_Branch(t *testing.T) {
	h := newHarness(t, processtest.Script{Code: 0})

	_, _, err := h.execute("update", "-r", "BRANCH_2")
	require.NoError(t, err)
	assert.Equal(t, []string{"-d", root, "update", "-r", "BRANCH_2", "-d", "-P", "."}, h.args(t, 0))
}

func TestCompare(t *testing.T) {
	h := newHarness(t, processtest.Script{OnStart: func(req process.Request) {
		_ = os.WriteFile(filepath.Join(req.Dir, "main.c"), []byte("int a;\nint b;\n"), 0o600)
	}})
	require.NoError(t, os.WriteFile(filepath.Join(h.workDir, "main.c"), []byte("int a;\nint c;\n"), 0o600))

	stdout, _, err := h.execute("compare", "main.c")
	require.NoError(t, err)

	assert.Contains(t, stdout, "-int b;")
	assert.Contains(t, stdout, "+int c;")

	local, err := os.ReadFile(filepath.Join(h.workDir, "main.c"))
	require.NoError(t, err)
	assert.Equal(t, "int a;\nint c;\n", string(local))
	assert.NoFileExists(t, filepath.Join(h.workDir, "main-clean-copy.c"))
}

func TestShowChanges(t *testing.T) {
	h := newHarness(t, processtest.Script{Stdout: []string{"M a.c\n? notes.txt\n"}})

	stdout, _, err := h.execute("show-changes")
	require.NoError(t, err)

	assert.Contains(t, stdout, "Modified:")
	assert.Contains(t, stdout, "notes.txt")
}

func TestSmartCommit(t *testing.T) {
	h := newHarness(t,
		processtest.Script{Stdout: []string{"M a.c\n? new.c\n"}},
		processtest.Script{Code: 0},
	)

	_, _, err := h.execute("smart-commit", "-m", "sync")
	require.NoError(t, err)

	require.Equal(t, 3, h.runner.CallCount())
	assert.Equal(t, []string{"-d", root, "-qn", "update"}, h.args(t, 0))
	assert.Equal(t, []string{"-d", root, "add", "new.c"}, h.args(t, 1))
	assert.Equal(t, []string{"-d", root, "commit", "-m", "sync", "a.c", "new.c"}, h.args(t, 2))
}

func TestSmartCommit_UnknownSelection(t *testing.T) {
	h := newHarness(t, processtest.Script{Stdout: []string{"M a.c\n"}})

	_, _, err := h.execute("smart-commit", "-m", "sync", "--add", "other.c")
	require.Error(t, err)
	assert.Equal(t, 1, h.runner.CallCount())
}

func TestStatus(t *testing.T) {
	h := newHarness(t, processtest.Script{Stdout: []string{"M a.c\nA b.c\n"}})

	stdout, _, err := h.execute("status")
	require.NoError(t, err)
	assert.Equal(t, "Modified:\n    a.c\n\nAdded:\n    b.c\n", stdout)
}

func TestStatus_Table(t *testing.T) {
	h := newHarness(t, processtest.Script{Stdout: []string{"M a.c\n? b.c\n"}})

	stdout, _, err := h.execute("status", "--table")
	require.NoError(t, err)

	assert.Contains(t, stdout, "CATEGORY")
	assert.Contains(t, stdout, "Modified")
	assert.Contains(t, stdout, "Uncontrolled")
	assert.Contains(t, stdout, "b.c")
}

func TestStatus_Clean(t *testing.T) {
	h := newHarness(t, processtest.Script{})

	stdout, _, err := h.execute("status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No local changes")
}

func TestHistoryAndShow(t *testing.T) {
	h := newHarness(t, processtest.Script{Code: 0}).persistent(t)

	_, _, err := h.execute("add", "a.txt")
	require.NoError(t, err)

	stdout, _, err := h.execute("history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "KIND")
	assert.Contains(t, stdout, "add")
	assert.Contains(t, stdout, "a.txt")
	assert.Contains(t, stdout, "succeeded")

	stdout, _, err = h.execute("show", "no-such-run")
	require.Error(t, err)
	assert.Empty(t, stdout)
}

func TestHistory_Empty(t *testing.T) {
	h := newHarness(t).persistent(t)

	stdout, _, err := h.execute("history", "--all")
	require.NoError(t, err)
	assert.Contains(t, stdout, "No runs recorded")
}
