//go:build !windows

package process_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/cvsbridge/cvsbridge/internal/process"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newRunner(t *testing.T, killAfter time.Duration) *process.ExecRunner {
	t.Helper()
	return process.NewExecRunner(process.Config{KillAfter: killAfter}, zaptest.NewLogger(t))
}

func collect(t *testing.T, h process.Handle) (string, string, process.Exit) {
	t.Helper()

	var stdout, stderr strings.Builder
	exit, err := process.Drain(
		h,
		func(b []byte) { stdout.Write(b) },
		func(b []byte) { stderr.Write(b) },
	)
	require.NoError(t, err)

	return stdout.String(), stderr.String(), exit
}

func TestExecRunner_ExitCodeAndStreams(t *testing.T) {
	r := newRunner(t, 0)

	h, err := r.Start(context.Background(), process.Request{
		Executable: "sh",
		Args:       []string{"-c", "printf 'M a.txt\\n'; printf 'warning' 1>&2; exit 3"},
		Dir:        t.TempDir(),
	})
	require.NoError(t, err)

	stdout, stderr, exit := collect(t, h)
	assert.Equal(t, "M a.txt\n", stdout)
	assert.Equal(t, "warning", stderr)
	assert.Equal(t, 3, exit.Code)
	assert.Empty(t, exit.Signal)
	assert.False(t, exit.Success())
}

func TestExecRunner_RunsInDir(t *testing.T) {
	dir := t.TempDir()
	r := newRunner(t, 0)

	h, err := r.Start(context.Background(), process.Request{Executable: "pwd", Dir: dir})
	require.NoError(t, err)

	stdout, _, exit := collect(t, h)
	assert.True(t, exit.Success())
	assert.Contains(t, strings.TrimSpace(stdout), dir)
}

func TestExecRunner_SpawnError(t *testing.T) {
	r := newRunner(t, 0)

	_, err := r.Start(context.Background(), process.Request{
		Executable: "cvsbridge-missing-binary",
		Dir:        t.TempDir(),
	})
	require.ErrorIs(t, err, process.ErrSpawn)

	_, err = r.Start(context.Background(), process.Request{
		Executable: "sh",
		Args:       []string{"-c", "true"},
		Dir:        "/nonexistent/working/copy",
	})
	require.ErrorIs(t, err, process.ErrSpawn)
}

func TestExecRunner_CancelTerminates(t *testing.T) {
	r := newRunner(t, 0)

	h, err := r.Start(context.Background(), process.Request{
		Executable: "sh",
		Args:       []string{"-c", "sleep 30"},
		Dir:        t.TempDir(),
	})
	require.NoError(t, err)

	h.Cancel()
	h.Cancel()

	_, _, exit := collect(t, h)
	assert.False(t, exit.Success())
	assert.NotEmpty(t, exit.Signal)
}

func TestExecRunner_ContextCancel(t *testing.T) {
	r := newRunner(t, 0)
	ctx, cancel := context.WithCancel(context.Background())

	h, err := r.Start(ctx, process.Request{
		Executable: "sh",
		Args:       []string{"-c", "sleep 30"},
		Dir:        t.TempDir(),
	})
	require.NoError(t, err)

	cancel()

	_, _, exit := collect(t, h)
	assert.False(t, exit.Success())
}

func TestExecRunner_KillAfterGracePeriod(t *testing.T) {
	r := newRunner(t, 100*time.Millisecond)

	h, err := r.Start(context.Background(), process.Request{
		Executable: "sh",
		Args:       []string{"-c", "trap '' TERM; sleep 30 & wait"},
		Dir:        t.TempDir(),
	})
	require.NoError(t, err)

	time.Sleep(100 * time.Millisecond)
	h.Cancel()

	_, _, exit := collect(t, h)
	assert.Equal(t, "killed", exit.Signal)
}
