package process

import (
	"context"
	"fmt"
	"os/exec"

	"go.uber.org/zap"
)

// Handle is a running process. Both streams must be drained before Wait
// returns; Drain does that for callers that only need callbacks.
type Handle interface {
	Stdout() <-chan []byte
	Stderr() <-chan []byte
	Wait() (Exit, error)
	Cancel()
}

type Runner interface {
	// Start spawns the process described by req. Cancelling ctx after Start
	// returns terminates the process; Wait still reports its exit.
	Start(ctx context.Context, req Request) (Handle, error)
}

type ExecRunner struct {
	config Config

	logger *zap.Logger
}

func NewExecRunner(config Config, logger *zap.Logger) *ExecRunner {
	return &ExecRunner{
		config: config,

		logger: logger,
	}
}

// Start implements Runner.
func (r *ExecRunner) Start(ctx context.Context, req Request) (Handle, error) {
	path, err := exec.LookPath(req.Executable)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpawn, err)
	}

	cmd := exec.Command(path, req.Args...)
	cmd.Dir = req.Dir
	setupProcessGroup(cmd)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdout pipe: %w", ErrSpawn, err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stderr pipe: %w", ErrSpawn, err)
	}

	if startErr := cmd.Start(); startErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrSpawn, startErr)
	}

	logger := r.logger.With(
		zap.Int("pid", cmd.Process.Pid),
		zap.String("executable", req.Executable),
	)
	logger.Debug("process started", zap.Strings("args", req.Args), zap.String("dir", req.Dir))

	h := newExecHandle(cmd, r.config.KillAfter, logger)
	h.pump(stdout, h.stdout)
	h.pump(stderr, h.stderr)

	stop := context.AfterFunc(ctx, h.Cancel)
	go h.wait(stop)

	return h, nil
}

var _ Runner = (*ExecRunner)(nil)
